package database

import (
	"errors"
	"fmt"
	"time"

	"go-pos-sync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCreditLimit       = errors.New("credit limit exceeded")
)

// SaleLine is one cart line in a checkout request.
type SaleLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// SaleInput is everything the checkout transaction needs.
type SaleInput struct {
	CustomerID *uint      `json:"customer_id"`
	Discount   float64    `json:"discount"`
	TaxAmount  float64    `json:"tax_amount"`
	OnCredit   bool       `json:"on_credit"`
	Items      []SaleLine `json:"items" binding:"required,min=1"`
}

// RecordSale runs the compound checkout transaction: lock each product row,
// check and deduct stock, snapshot prices, write the sale header and items
// with consistent totals, and bump the customer balance for credit sales.
// All of it commits or none of it does.
func RecordSale(db *gorm.DB, companyID, userID uint, input SaleInput) (*models.Sale, error) {
	var sale models.Sale

	err := db.Transaction(func(tx *gorm.DB) error {
		var totalAmount float64
		var saleItems []models.SaleItem

		for _, line := range input.Items {
			var product models.Product

			// Lock the row to prevent race conditions
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("company_id = ?", companyID).
				First(&product, line.ProductID).Error
			if err != nil {
				return fmt.Errorf("product %d not found", line.ProductID)
			}

			if product.StockQuantity < line.Quantity {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
			}

			product.StockQuantity -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			totalAmount += product.Price * float64(line.Quantity)
			saleItems = append(saleItems, models.SaleItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtSale: product.Price,
			})
		}

		grandTotal := totalAmount - input.Discount + input.TaxAmount

		if input.OnCredit && input.CustomerID != nil {
			var customer models.Customer
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("company_id = ?", companyID).
				First(&customer, *input.CustomerID).Error
			if err != nil {
				return fmt.Errorf("customer %d not found", *input.CustomerID)
			}
			if customer.CreditLimit > 0 && customer.CurrentBalance+grandTotal > customer.CreditLimit {
				return fmt.Errorf("%w for %s", ErrCreditLimit, customer.Name)
			}
			customer.CurrentBalance += grandTotal
			if err := tx.Save(&customer).Error; err != nil {
				return err
			}
		}

		sale = models.Sale{
			CompanyID:   companyID,
			UserID:      userID,
			CustomerID:  input.CustomerID,
			TotalAmount: totalAmount,
			Discount:    input.Discount,
			TaxAmount:   input.TaxAmount,
			GrandTotal:  grandTotal,
			Status:      "completed",
			SaleTime:    time.Now(),
			Items:       saleItems, // GORM inserts these with the header
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// PurchaseLine is one received line on a goods receipt.
type PurchaseLine struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost"`
}

// PurchaseInput describes a goods receipt from a vendor.
type PurchaseInput struct {
	VendorID  uint           `json:"vendor_id" binding:"required"`
	Discount  float64        `json:"discount"`
	TaxAmount float64        `json:"tax_amount"`
	Items     []PurchaseLine `json:"items" binding:"required,min=1"`
}

// RecordPurchase is the mirror of RecordSale: stock goes up, the latest
// unit cost is remembered on the product, totals stay consistent with the
// item rows.
func RecordPurchase(db *gorm.DB, companyID, userID uint, input PurchaseInput) (*models.Purchase, error) {
	var purchase models.Purchase

	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.Where("company_id = ?", companyID).First(&vendor, input.VendorID).Error; err != nil {
			return fmt.Errorf("vendor %d not found", input.VendorID)
		}

		var totalAmount float64
		var purchaseItems []models.PurchaseItem

		for _, line := range input.Items {
			var product models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("company_id = ?", companyID).
				First(&product, line.ProductID).Error
			if err != nil {
				return fmt.Errorf("product %d not found", line.ProductID)
			}

			product.StockQuantity += line.Quantity
			if line.UnitCost > 0 {
				product.CostPrice = line.UnitCost
			}
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			totalAmount += line.UnitCost * float64(line.Quantity)
			purchaseItems = append(purchaseItems, models.PurchaseItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitCost:  line.UnitCost,
			})
		}

		purchase = models.Purchase{
			CompanyID:    companyID,
			UserID:       userID,
			VendorID:     input.VendorID,
			TotalAmount:  totalAmount,
			Discount:     input.Discount,
			TaxAmount:    input.TaxAmount,
			GrandTotal:   totalAmount - input.Discount + input.TaxAmount,
			Status:       "received",
			PurchaseTime: time.Now(),
			Items:        purchaseItems,
		}
		return tx.Create(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
