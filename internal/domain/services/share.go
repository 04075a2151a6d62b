package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

// ErrNothingToShare is returned when the message to share is blank
var ErrNothingToShare = errors.New("no message to share. Please check a message first")

const (
	ShareTitle = "Palava Proof Scam Alert"

	shareTemplate = "⚠️ Palava Proof Scam Alert ⚠️\n\nSuspicious message: \"%s\"\n\nCheck scams at Palava Proof - Liberia's Community Scam Shield"

	clipboardCopiedMessage = "📋 Warning copied to clipboard! Share with friends."
	manualShareMessage     = "Could not copy. Please share manually."
)

// ShareText formats the warning that is handed to the share mechanism
func ShareText(message string) string {
	return fmt.Sprintf(shareTemplate, message)
}

// Sharer hands text to a native share mechanism
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// Clipboard copies text for the user to paste elsewhere
type Clipboard interface {
	Copy(text string) error
}

// ShareService runs the share fallback chain: native share, then
// clipboard, then manual instructions. Either collaborator may be nil.
type ShareService struct {
	sharer    Sharer
	clipboard Clipboard
	logger    *logger.Logger
}

// NewShareService creates a new ShareService
func NewShareService(sharer Sharer, clipboard Clipboard, log *logger.Logger) *ShareService {
	return &ShareService{
		sharer:    sharer,
		clipboard: clipboard,
		logger:    log.WithComponent("share"),
	}
}

// Share shares a warning about message. The only error is
// ErrNothingToShare; delivery failures degrade along the chain.
func (s *ShareService) Share(ctx context.Context, message string) (*models.ShareOutcome, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrNothingToShare
	}

	outcome := &models.ShareOutcome{
		Title: ShareTitle,
		Text:  ShareText(message),
	}

	if s.sharer != nil {
		err := s.sharer.Share(ctx, outcome.Title, outcome.Text)
		if err == nil {
			outcome.Method = models.ShareMethodNative
			return outcome, nil
		}
		s.logger.Debug().Err(err).Msg("share failed, falling back to clipboard")
	}

	if s.clipboard != nil {
		err := s.clipboard.Copy(outcome.Text)
		if err == nil {
			outcome.Method = models.ShareMethodClipboard
			outcome.Message = clipboardCopiedMessage
			return outcome, nil
		}
		s.logger.Debug().Err(err).Msg("clipboard copy failed")
	}

	outcome.Method = models.ShareMethodManual
	outcome.Message = manualShareMessage
	return outcome, nil
}
