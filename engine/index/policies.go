package index

import "github.com/bankrag/bankrag/engine/domain"

// Policies is the static banking knowledge base. Each entry becomes one
// POLICY document keyed by its policy id.
var Policies = []domain.Document{
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "overdraft-policy",
		Content:    "Overdraft Protection Policy: Customers with checking accounts are automatically enrolled in overdraft protection. The bank covers transactions up to $500 beyond the account balance. An overdraft fee of $35 is charged per occurrence. Premium customers receive up to $1,000 overdraft coverage with reduced $15 fees. Overdraft protection can be opted out by contacting customer service.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "interest-rates",
		Content:    "Interest Rate Policy: Savings accounts earn between 2.0% and 5.0% APY depending on balance tier. Tier 1 ($0-$9,999): 2.0% APY. Tier 2 ($10,000-$49,999): 3.5% APY. Tier 3 ($50,000+): 5.0% APY. Checking accounts earn 0.1% APY. Interest is compounded daily and credited monthly.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "fraud-detection",
		Content:    "Fraud Detection Policy: Transactions exceeding $10,000 require additional verification. International transactions trigger automated alerts. Multiple transactions at the same merchant within 5 minutes are flagged for review. Customers are notified via SMS and email for transactions over $500. Suspected fraud results in temporary account freeze pending investigation.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "credit-card-rewards",
		Content:    "Credit Card Rewards Program: Standard cards earn 1% cashback on all purchases. Premium cards earn 2% on dining and travel, 1.5% on everything else. Private Banking clients earn 3% on all categories. Points can be redeemed for statement credits, travel, or gift cards. Points expire after 24 months of account inactivity.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "loan-eligibility",
		Content:    "Loan Eligibility Requirements: Personal loans require minimum credit score of 620. Mortgage applications require minimum score of 680, 3% down payment for first-time buyers, 20% for investment properties. Auto loans available for scores 580+. Debt-to-income ratio must not exceed 43% for mortgages, 50% for personal loans.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "customer-segments",
		Content:    "Customer Segmentation Policy: RETAIL segment: Standard banking services, accounts with balances under $100,000 combined. PREMIUM segment: Enhanced services, dedicated support line, fee waivers, combined balances $100,000-$1,000,000. PRIVATE_BANKING segment: Full-service wealth management, personal banker, exclusive investment products, combined balances over $1,000,000.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "dispute-resolution",
		Content:    "Transaction Dispute Policy: Customers have 60 days from statement date to dispute transactions. Provisional credit is issued within 10 business days of filing. Investigation completes within 45 days for domestic transactions, 90 days for international. Disputes can be filed online, by phone, or at any branch location.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "account-closure",
		Content:    "Account Closure Policy: Accounts can be closed at any time by the account holder. Early closure fee of $25 applies if account is less than 6 months old. All pending transactions must clear before closure. Remaining balance is mailed as check or transferred to another account. Closed accounts cannot be reopened after 90 days.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "wire-transfer",
		Content:    "Wire Transfer Policy: Domestic wire transfers cost $25 for outgoing, free for incoming. International wires cost $45 outgoing, $15 incoming. Premium and Private Banking customers receive free domestic wires. Wire transfers initiated before 3 PM ET are processed same business day. Daily wire limit is $50,000 for retail, $250,000 for premium, unlimited for private banking.",
	},
	{
		SourceType: domain.SourcePolicy,
		SourceID:   "aml-kyc",
		Content:    "Anti-Money Laundering and KYC Policy: All new accounts require government-issued ID and proof of address. Cash transactions over $10,000 are reported to FinCEN. Suspicious activity reports (SARs) are filed for unusual patterns. Enhanced due diligence required for high-risk customers and politically exposed persons. Customer information is reverified every 2 years.",
	},
}
