package main

import (
	"log"
	"os"

	"ai-imagestudio-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

type balanceRow struct {
	UserId    string
	Balance   int
	LedgerSum int
	TxCount   int
}

func main() {
	// 1. Load Environment
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to DB
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("🔍 LEDGER INTEGRITY CHECK")

	// 3. Every balance row must equal the sum of its ledger rows
	var rows []balanceRow
	query := `
		SELECT b.user_id,
		       b.balance,
		       COALESCE(SUM(t.amount), 0) AS ledger_sum,
		       COUNT(t.id) AS tx_count
		FROM credit_balances b
		LEFT JOIN ai_credit_transactions t ON t.user_id = b.user_id
		GROUP BY b.user_id, b.balance
		ORDER BY b.user_id`
	if err := db.Raw(query).Scan(&rows).Error; err != nil {
		log.Fatal("Query failed:", err)
	}

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed, color.Bold)

	mismatches := 0
	for _, r := range rows {
		if r.Balance == r.LedgerSum {
			ok.Printf("OK    user=%s balance=%d (%d txs)\n", r.UserId, r.Balance, r.TxCount)
		} else {
			bad.Printf("DRIFT user=%s balance=%d ledger=%d (%d txs)\n", r.UserId, r.Balance, r.LedgerSum, r.TxCount)
			mismatches++
		}
	}

	// 4. Transactions whose user never got a balance row
	var orphans int64
	db.Raw(`SELECT COUNT(*) FROM ai_credit_transactions t
	        WHERE NOT EXISTS (SELECT 1 FROM credit_balances b WHERE b.user_id = t.user_id)`).Scan(&orphans)
	if orphans > 0 {
		bad.Printf("ORPHANS: %d transactions without a balance row\n", orphans)
	}

	log.Printf("Checked %d balances, %d mismatches", len(rows), mismatches)
	if mismatches > 0 || orphans > 0 {
		os.Exit(1)
	}
	color.Green("✅ Ledger is consistent.")
}
