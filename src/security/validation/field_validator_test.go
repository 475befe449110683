// backend/src/security/validation/field_validator_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransactionType(t *testing.T) {
	assert.NoError(t, ValidateTransactionType("income"))
	assert.NoError(t, ValidateTransactionType(" Expense "))
	assert.Error(t, ValidateTransactionType("transfer"))
	assert.Error(t, ValidateTransactionType(""))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("Food & Drink"))
	assert.NoError(t, ValidateCategory("Bills/Utilities"))
	assert.NoError(t, ValidateCategory(""))
	assert.Error(t, ValidateCategory("=SUM(A1:A9)"))
	assert.Error(t, ValidateCategory(strings.Repeat("a", MaxCategoryLength+1)))
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", SanitizeForFormulaInjection("=SUM(A1)"))
	assert.Equal(t, "Coffee", SanitizeForFormulaInjection("Coffee"))
}
