package resume

import (
	"context"

	"go.uber.org/zap"
)

// Parsed is the upload result handed to the conversation agent.
type Parsed struct {
	Fields
	Skills []string `json:"skills"`
}

// Parse reads the document and extracts its fields. Reading failures are
// logged and downgraded to the manual-entry fallback.
func Parse(ctx context.Context, data []byte, mimeType, fileName string, logger *zap.Logger) Parsed {
	if logger == nil {
		logger = zap.NewNop()
	}

	text, err := Text(ctx, data, mimeType, fileName)
	if err != nil {
		logger.Warn("reading resume text failed, falling back to manual entry",
			zap.String("file", fileName),
			zap.String("mime_type", mimeType),
			zap.Error(err),
		)
		return Parsed{Fields: Fallback(fileName), Skills: Skills("")}
	}

	fields := Extract(text, fileName)
	logger.Debug("resume fields extracted",
		zap.String("file", fileName),
		zap.Bool("has_email", fields.Email != ""),
		zap.Bool("has_phone", fields.Phone != ""),
		zap.Int("text_length", len(text)),
	)

	return Parsed{Fields: fields, Skills: Skills(text)}
}
