package sync

import (
	"go-pos-sync/internal/models"
)

// Cloud collection endpoints, one per syncable entity.
const (
	collectionCompanies  = "companies"
	collectionUsers      = "users"
	collectionCategories = "categories"
	collectionVendors    = "vendors"
	collectionProducts   = "products"
	collectionCustomers  = "customers"
)

// The cloud schema uses different field names than the local store, so each
// entity has an explicit, enumerable mapping here. Nothing is passed
// through generically.

// companyPayload: tax_no→taxNumber, logo_path→logoUrl,
// currency_symbol→currency.
func companyPayload(c *models.Company) map[string]any {
	return map[string]any{
		"name":      c.Name,
		"address":   c.Address,
		"phone":     c.Phone,
		"email":     c.Email,
		"taxNumber": c.TaxNo,
		"logoUrl":   c.LogoPath,
		"currency":  c.CurrencySymbol,
		"isActive":  c.IsActive,
	}
}

// userPayload: fullname→fullName, owning company's global id→companyId.
func userPayload(u *models.User, companyGlobalID uint) map[string]any {
	return map[string]any{
		"username":  u.Username,
		"password":  u.PasswordHash,
		"companyId": companyGlobalID,
		"fullName":  u.Fullname,
		"email":     u.Email,
		"role":      u.Role,
		"isActive":  u.IsActive,
	}
}

func categoryPayload(c *models.Category, companyGlobalID uint) map[string]any {
	return map[string]any{
		"companyId":   companyGlobalID,
		"name":        c.Name,
		"description": c.Description,
		"isActive":    c.IsActive,
	}
}

func vendorPayload(v *models.Vendor, companyGlobalID uint) map[string]any {
	return map[string]any{
		"companyId": companyGlobalID,
		"name":      v.Name,
		"phone":     v.Phone,
		"email":     v.Email,
		"address":   v.Address,
		"isActive":  v.IsActive,
	}
}

// productPayload: cost_price→costPrice, stock_quantity→stockQuantity,
// image_url→imageUrl; category/vendor references travel as cloud ids.
// categoryGlobalID/vendorGlobalID are nil when the product has no such
// reference locally.
func productPayload(p *models.Product, companyGlobalID uint, categoryGlobalID, vendorGlobalID *uint) map[string]any {
	payload := map[string]any{
		"companyId":     companyGlobalID,
		"name":          p.Name,
		"barcode":       p.Barcode,
		"price":         p.Price,
		"costPrice":     p.CostPrice,
		"stockQuantity": p.StockQuantity,
		"imageUrl":      p.ImageURL,
		"isActive":      p.IsActive,
	}
	if categoryGlobalID != nil {
		payload["categoryId"] = *categoryGlobalID
	}
	if vendorGlobalID != nil {
		payload["vendorId"] = *vendorGlobalID
	}
	return payload
}

// customerPayload: credit_limit→creditLimit, current_balance→balance.
func customerPayload(c *models.Customer, companyGlobalID uint) map[string]any {
	return map[string]any{
		"companyId":   companyGlobalID,
		"name":        c.Name,
		"phone":       c.Phone,
		"email":       c.Email,
		"address":     c.Address,
		"creditLimit": c.CreditLimit,
		"balance":     c.CurrentBalance,
		"isActive":    c.IsActive,
	}
}
