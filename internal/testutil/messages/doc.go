// Package messages provides a corpus of realistic SMS alerts for tests.
//
// Fixtures group messages by the outcome the ingestion path should reach:
//
//	msgs := messages.NewBuilder(t).
//		WithFixture(messages.FixtureConfident).
//		WithMessage("Rs.90 paid to CHAI POINT via UPI", "VM-PAYTMB").
//		Build()
//
// Each built message gets its own receipt time, one minute apart, starting
// at messages.BaseTime.
package messages
