package sync

import (
	"testing"

	"go-pos-sync/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCompanyPayload(t *testing.T) {
	company := &models.Company{
		Name:           "Corner Shop",
		Address:        "1 Main St",
		Phone:          "555-0100",
		Email:          "shop@corner.shop",
		TaxNo:          "TX-42",
		LogoPath:       "/uploads/logo.png",
		CurrencySymbol: "$",
		IsActive:       true,
	}

	payload := companyPayload(company)

	assert.Equal(t, map[string]any{
		"name":      "Corner Shop",
		"address":   "1 Main St",
		"phone":     "555-0100",
		"email":     "shop@corner.shop",
		"taxNumber": "TX-42",
		"logoUrl":   "/uploads/logo.png",
		"currency":  "$",
		"isActive":  true,
	}, payload)
}

func TestUserPayload(t *testing.T) {
	user := &models.User{
		Username:     "jo",
		PasswordHash: "$2a$10$hash",
		Fullname:     "Jo Field",
		Email:        "jo@corner.shop",
		Role:         "cashier",
		IsActive:     true,
	}

	payload := userPayload(user, 501)

	assert.Equal(t, map[string]any{
		"username":  "jo",
		"password":  "$2a$10$hash",
		"companyId": uint(501),
		"fullName":  "Jo Field",
		"email":     "jo@corner.shop",
		"role":      "cashier",
		"isActive":  true,
	}, payload)
}

func TestProductPayload(t *testing.T) {
	product := &models.Product{
		Name:          "Coffee",
		Barcode:       "890123",
		Price:         4.50,
		CostPrice:     2.10,
		StockQuantity: 30,
		ImageURL:      "/uploads/coffee.png",
		IsActive:      true,
	}

	t.Run("without category or vendor", func(t *testing.T) {
		payload := productPayload(product, 501, nil, nil)

		assert.NotContains(t, payload, "categoryId")
		assert.NotContains(t, payload, "vendorId")
		assert.Equal(t, uint(501), payload["companyId"])
		assert.Equal(t, 2.10, payload["costPrice"])
		assert.Equal(t, 30, payload["stockQuantity"])
		assert.Equal(t, "/uploads/coffee.png", payload["imageUrl"])
	})

	t.Run("with category and vendor cloud ids", func(t *testing.T) {
		categoryID, vendorID := uint(77), uint(88)
		payload := productPayload(product, 501, &categoryID, &vendorID)

		assert.Equal(t, uint(77), payload["categoryId"])
		assert.Equal(t, uint(88), payload["vendorId"])
	})
}

func TestCustomerPayload(t *testing.T) {
	customer := &models.Customer{
		Name:           "Alex Regular",
		Phone:          "555-0199",
		CreditLimit:    200,
		CurrentBalance: 35.50,
		IsActive:       true,
	}

	payload := customerPayload(customer, 501)

	assert.Equal(t, uint(501), payload["companyId"])
	assert.Equal(t, 200.0, payload["creditLimit"])
	assert.Equal(t, 35.50, payload["balance"])
	assert.NotContains(t, payload, "currentBalance")
	assert.NotContains(t, payload, "credit_limit")
}
