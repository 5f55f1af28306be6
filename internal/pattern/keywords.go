package pattern

import "github.com/Veraticus/smsledger/internal/model"

// Direction keyword lists. These are matched as raw substrings, not tokens.
var (
	DebitKeywords = []string{
		"debited", "debit", "spent", "paid", "withdrawn", "sent",
		"purchase", "deducted", "charged", "transferred to",
	}
	CreditKeywords = []string{
		"credited", "credit", "received", "deposited", "refund",
		"cashback", "added to", "transferred from",
	}
)

// ChannelRule ties a payment channel to the keywords that indicate it.
type ChannelRule struct {
	Set     KeywordSet
	Channel model.Channel
}

// ChannelRules are evaluated in priority order: UPI, then card, then bank rails.
var ChannelRules = []ChannelRule{
	{
		Channel: model.ChannelUPI,
		Set: NewKeywordSet("upi",
			"upi", "vpa", "bhim", "gpay", "google pay", "phonepe", "paytm upi",
			"@ybl", "@okaxis", "@okhdfcbank", "@okicici", "@oksbi", "@paytm", "@axl", "@ibl", "@upi"),
	},
	{
		Channel: model.ChannelCard,
		Set: NewKeywordSet("card",
			"card", "debit card", "credit card", "pos", "atm", "swipe", "swiped",
			"visa", "mastercard", "rupay", "amex", "contactless"),
	},
	{
		Channel: model.ChannelBank,
		Set: NewKeywordSet("bank",
			"neft", "imps", "rtgs", "ach", "nach", "ecs", "a/c", "acct", "account",
			"net banking", "netbanking", "bank transfer", "cheque", "chq"),
	},
}

// Keyword sets consulted by the validation gate.
var (
	// TransactionVerbs is evidence that money moved.
	TransactionVerbs = NewKeywordSet("transaction_verbs",
		"debited", "credited", "paid", "received", "spent", "transferred", "sent",
		"withdrawn", "withdrawal", "deducted", "deposited", "charged", "refunded",
		"purchase", "txn", "transaction", "card", "pos", "atm",
		"paytm", "phonepe", "gpay", "google pay", "amazon pay", "mobikwik",
		"upi", "imps", "neft", "rtgs", "ach")

	// RailKeywords names a financial rail or account.
	RailKeywords = NewKeywordSet("rail_keywords",
		"upi", "imps", "neft", "rtgs", "ach", "pos", "atm", "card", "wallet",
		"a/c", "acct", "account")

	// StrongVerbs override the balance-only rejection.
	StrongVerbs = NewKeywordSet("strong_verbs",
		"credited", "debited", "paid", "received", "spent", "charged", "withdrawn",
		"deducted", "deposited", "transferred", "refunded", "purchase")
)
