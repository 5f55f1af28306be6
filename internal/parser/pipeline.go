package parser

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/smsledger/internal/model"
)

// Pipeline runs the field stages in order over one context.
type Pipeline struct {
	stages []Stage
}

// NewPipeline returns a pipeline over DefaultStages.
func NewPipeline() *Pipeline {
	return &Pipeline{stages: DefaultStages()}
}

// NewPipelineWithStages returns a pipeline over a custom stage list.
func NewPipelineWithStages(stages []Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Parse extracts every field from text. Unresolved fields receive their
// defaults, so the result is always fully populated except for Amount.
func (p *Pipeline) Parse(text, senderID string) model.ParsedTransaction {
	c := NewContext(text, senderID)

	for _, stage := range p.stages {
		c.record(stage.Name, p.runStage(stage, c))
	}

	if c.Merchant == "" {
		c.Merchant = model.UnknownMerchant
	}
	if c.Direction == "" {
		c.Direction = model.DirectionDebit
	}
	if c.Channel == "" {
		c.Channel = model.ChannelUPI
	}

	return c.Result()
}

// runStage isolates a stage fault so the remaining stages still run.
func (p *Pipeline) runStage(stage Stage, c *Context) (confidence float64) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Parsing stage failed",
				"stage", stage.Name,
				"error", fmt.Sprint(r))
			confidence = 0
		}
	}()
	return stage.Run(c)
}
