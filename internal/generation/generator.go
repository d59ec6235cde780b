package generation

import (
	"context"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/utils"
)

// Generator runs the fallback chain. Generate always returns content; the
// Tier on the result records how far down the chain it had to go.
type Generator struct {
	remote    RemoteGenerator
	templates *TemplateGenerator
	logger    utils.Logger
}

// NewGenerator builds the chain. remote may be nil, in which case every
// request starts at the template tier.
func NewGenerator(remote RemoteGenerator, logger utils.Logger) *Generator {
	return &Generator{
		remote:    remote,
		templates: NewTemplateGenerator(),
		logger:    logger,
	}
}

func (g *Generator) Generate(ctx context.Context, req *Request) *Result {
	now := time.Now().UTC()

	if g.remote != nil {
		text, err := g.remote.Generate(ctx, BuildPrompt(req), BuildSystemContext(req))
		if err == nil {
			return &Result{Text: text, Tier: TierRemote, GeneratedAt: now}
		}
		g.logger.Warn("remote generation failed, falling back to templates",
			"session_id", req.SessionID,
			"subject", req.Subject,
			"error", err)
	}

	if text, intent := g.templates.Generate(ctx, req); text != "" {
		return &Result{Text: text, Tier: TierTemplate, Intent: intent, GeneratedAt: now}
	}

	g.logger.Warn("template generation produced no content, using static placeholder",
		"session_id", req.SessionID)
	return &Result{Text: StaticPlaceholder(req), Tier: TierStatic, GeneratedAt: now}
}
