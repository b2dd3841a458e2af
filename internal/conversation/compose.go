package conversation

import (
	"fmt"

	"github.com/plannerhq/assistant/internal/files"
)

const bannerFooter = "=============================="

// Compose merges the user's text and the normalized file units into the
// opening user turn of a request. With no units the turn is plain text
// (empty string allowed). Otherwise the parts list keeps input order: the
// user text first when non-empty, then one part per unit. A parts list that
// collapses to a single text part is normalized back to the plain-text form.
func Compose(userText string, units []files.ContentUnit) Turn {
	if len(units) == 0 {
		return NewTextTurn(RoleUser, userText)
	}

	parts := make([]ContentPart, 0, len(units)+1)
	if userText != "" {
		parts = append(parts, TextPart(userText))
	}
	for _, unit := range units {
		switch unit.Kind {
		case files.KindImage:
			parts = append(parts, ImagePart(unit.MimeType, unit.Base64))
		case files.KindText:
			parts = append(parts, TextPart(fileBanner(unit.Filename, unit.PageCount, unit.Text)))
		default:
			parts = append(parts, TextPart(fileBanner(unit.Filename, unit.PageCount, unit.Reason)))
		}
	}

	if len(parts) == 1 && parts[0].Type == PartText {
		return NewTextTurn(RoleUser, parts[0].Text)
	}
	return NewPartsTurn(RoleUser, parts)
}

// fileBanner wraps extracted content in a delimiter naming its source file,
// so the model can attribute the material to its origin.
func fileBanner(filename string, pageCount int, content string) string {
	header := filename
	if pageCount > 0 {
		header = fmt.Sprintf("%s (%d pages)", filename, pageCount)
	}
	return fmt.Sprintf("\n\n===== FILE: %s =====\n%s\n%s\n", header, content, bannerFooter)
}
