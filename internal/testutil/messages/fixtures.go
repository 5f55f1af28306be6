package messages

// Sample is a single SMS alert with its sender ID.
type Sample struct {
	Body   string
	Sender string
}

// Fixture is a named set of samples.
type Fixture interface {
	Name() string
	Samples() []Sample
}

type fixture struct {
	name    string
	samples []Sample
}

func (f *fixture) Name() string      { return f.name }
func (f *fixture) Samples() []Sample { return f.samples }

// Predefined fixtures.
var (
	// FixtureConfident parses with a final confidence above the default
	// review threshold.
	FixtureConfident = &fixture{
		name: "Confident",
		samples: []Sample{
			{Body: "Rs.250 debited from A/c XX1234 to SWIGGY via UPI", Sender: "VM-HDFCBK"},
			{Body: "INR 12,50,000.00 credited to your account via NEFT from ACME CORP", Sender: "AD-SBIINB"},
			{Body: "Rs 1,200 spent on your ICICI Bank Credit Card XX4321 at MYNTRA", Sender: ""},
		},
	}

	// FixtureDoubtful parses but lands below the default review threshold.
	FixtureDoubtful = &fixture{
		name: "Doubtful",
		samples: []Sample{
			{Body: "Rs. 1,234.56 debited", Sender: ""},
		},
	}

	// FixtureNoise is rejected before a transaction is assembled.
	FixtureNoise = &fixture{
		name: "Noise",
		samples: []Sample{
			{Body: "Your OTP is 482910, valid for 10 minutes", Sender: "VM-HDFCBK"},
			{Body: "Flat 20% cashback on your next order, click here!", Sender: "VK-PROMO"},
			{Body: "Your UPI payment of Rs 250 to SWIGGY has failed", Sender: "VM-HDFCBK"},
			{Body: "Your account was debited, please check", Sender: ""},
		},
	}
)
