package classification

// DefaultPatterns returns the built-in noise patterns used by the gate.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// One-time passcodes and verification codes
		{
			Name:     "OTP Code",
			Type:     NoiseOTP,
			Regex:    `\b(?:otp|one[\s-]?time\s+pass(?:word|code)|verification\s+code|security\s+code|auth(?:entication)?\s+code)\b\D{0,40}\b\d{4,8}\b`,
			Priority: 100,
		},
		{
			Name:     "Code Then OTP",
			Type:     NoiseOTP,
			Regex:    `\b\d{4,8}\b\D{0,30}\b(?:otp|one[\s-]?time\s+pass(?:word|code)|verification\s+code)\b`,
			Priority: 95,
		},
		{
			Name:     "Validity Window",
			Type:     NoiseOTP,
			Regex:    `\bvalid\s+(?:for|till|upto|up\s+to)\s+(?:the\s+next\s+)?\d+\s*(?:min(?:ute)?s?|sec(?:ond)?s?|hrs?|hours?)\b`,
			Priority: 90,
		},

		// Failed, declined and reversed payments
		{
			Name:     "Transaction Failed",
			Type:     NoiseFailed,
			Regex:    `\b(?:failed|failure|unsuccessful|declined|not\s+successful|could\s+not\s+be\s+(?:processed|completed))\b`,
			Priority: 100,
		},
		{
			Name:     "Insufficient Funds",
			Type:     NoiseFailed,
			Regex:    `\binsufficient\s+(?:funds|balance|bal)\b`,
			Priority: 95,
		},
		{
			Name:     "Invalid Credentials",
			Type:     NoiseFailed,
			Regex:    `\b(?:invalid|incorrect|wrong)\s+(?:upi\s+pin|mpin|pin|otp|cvv|password|credentials?)\b`,
			Priority: 95,
		},
		{
			Name:     "Reversed",
			Type:     NoiseFailed,
			Regex:    `\b(?:reversed|reversal)\b`,
			Priority: 90,
		},

		// Offers and marketing
		{
			Name:     "Click Here",
			Type:     NoisePromotional,
			Regex:    `\bclick\s+(?:here|below|on\s+the\s+link|the\s+link)\b`,
			Priority: 100,
		},
		{
			Name:     "Unsubscribe",
			Type:     NoisePromotional,
			Regex:    `\b(?:unsubscribe|opt[\s-]?out|to\s+stop\s+(?:receiving|these))\b`,
			Priority: 100,
		},
		{
			Name:     "Percent Off",
			Type:     NoisePromotional,
			Regex:    `\b\d{1,3}\s*%\s*(?:off|cashback|discount|instant\s+discount)`,
			Priority: 90,
		},
		{
			Name:     "Offer Language",
			Type:     NoisePromotional,
			Regex:    `\b(?:(?:exclusive|special|festive|limited|best)\s+(?:offers?|deals?|discounts?)|offers?\s+(?:valid|ends|expires)|avail\s+(?:the\s+|this\s+|an?\s+)?(?:offer|deal|discount)|deals?\s+on|(?:use|apply)\s+(?:promo\s+|coupon\s+)?code|(?:promo|coupon)\s+code|hurry|limited\s+(?:period|time)|apply\s+now|shop\s+now|pre[\s-]?approved|you\s+have\s+won|eligible\s+for\s+(?:a\s+)?(?:loan|card|credit|upgrade))\b`,
			Priority: 80,
		},

		// Account alerts that are not single transactions
		{
			Name:     "Credit Limit Change",
			Type:     NoiseAccountAlert,
			Regex:    `\bcredit\s+limit\b.{0,40}\b(?:increased|enhanced|revised|changed|reduced|upgraded|updated)\b|\b(?:increased|enhanced|revised)\b.{0,20}\bcredit\s+limit\b`,
			Priority: 100,
		},
		{
			Name:     "Statement Ready",
			Type:     NoiseAccountAlert,
			Regex:    `\bstatement\b.{0,60}\b(?:generated|ready|available|sent|dispatched|emailed)\b`,
			Priority: 95,
		},
		{
			Name:     "Periodic Statement",
			Type:     NoiseAccountAlert,
			Regex:    `\b(?:e-?statement|monthly\s+statement|periodic\s+statement|statement\s+(?:for|of)\s+(?:the\s+)?(?:month|period|cycle))\b`,
			Priority: 90,
		},

		// Balance announcements
		{
			Name:     "Available Balance",
			Type:     NoiseBalance,
			Regex:    `\b(?:available|avl|avbl|avail|current|closing|ledger|clear)\.?\s*bal(?:ance)?\b`,
			Priority: 100,
		},
		{
			Name:     "Balance Statement",
			Type:     NoiseBalance,
			Regex:    `\b(?:a/c|account|acct)\s+bal(?:ance)?\b|\bbal(?:ance)?\s+(?:is|as\s+on|as\s+of|in\s+(?:your\s+)?(?:a/c|account))\b`,
			Priority: 90,
		},
	}
}
