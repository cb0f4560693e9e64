package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// RunAgent answers a business question over one company's data. Every tool
// the model can call is scoped to that company; it can never read another
// tenant's rows.
func RunAgent(db *gorm.DB, companyID uint, userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are an assistant for a point-of-sale system.

RULES:
1. For any question about PRICE, COST, STOCK or product DETAILS, call
   'check_inventory' and read the answer out of the JSON it returns.
2. For revenue or sales questions, call 'get_sales_report'.
3. For questions about cloud backup or replication, call 'check_sync_status'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get this company's inventory list with ID, Name, Price, Cost and Stock for every product.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "check_sync_status",
					Description: "Count rows still waiting to be replicated to the cloud, per table.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}

		switch funcCall.Name {
		case "check_inventory":
			return executeInventory(ctx, session, db, companyID)
		case "get_sales_report":
			return executeSalesReport(ctx, session, db, companyID, funcCall)
		case "check_sync_status":
			return executeSyncStatus(ctx, session, db)
		}
	}

	return printResponse(resp), nil
}

func executeInventory(ctx context.Context, session *genai.ChatSession, db *gorm.DB, companyID uint) (string, error) {
	var products []models.Product
	db.Where("company_id = ?", companyID).Find(&products)

	type simpleProduct struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Stock int     `json:"stock"`
		Price float64 `json:"price"`
		Cost  float64 `json:"cost"`
	}
	var list []simpleProduct
	for _, p := range products {
		list = append(list, simpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			Stock: p.StockQuantity,
			Price: p.Price,
			Cost:  p.CostPrice,
		})
	}

	jsonBytes, _ := json.Marshal(list)
	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(resp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, db *gorm.DB, companyID uint, funcCall genai.FunctionCall) (string, error) {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}
	end = end.AddDate(0, 0, 1)

	report, err := database.GetSalesReport(db, companyID, start, end)
	if err != nil {
		return "Error calculating sales.", nil
	}

	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(resp), nil
}

func executeSyncStatus(ctx context.Context, session *genai.ChatSession, db *gorm.DB) (string, error) {
	pending := map[string]int64{}
	for table, model := range map[string]interface{}{
		"companies": &models.Company{},
		"users":     &models.User{},
		"products":  &models.Product{},
		"customers": &models.Customer{},
	} {
		var count int64
		db.Model(model).Where("sync_status = ?", models.SyncPending).Count(&count)
		pending[table] = count
	}

	jsonBytes, _ := json.Marshal(pending)
	resp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_sync_status",
		Response: map[string]interface{}{"pending_rows": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(resp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
