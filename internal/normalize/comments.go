package normalize

import (
	"time"

	"polyterminal/internal/gamma"
	"polyterminal/internal/models"
)

// MapComments flattens one entity's comment listing. Comments usually carry
// their parent reference, but the per-entity endpoint may omit it, so the
// requested parent fills the gap. Rows without an id are dropped.
func MapComments(parentType, parentID string, docs []gamma.Comment, now time.Time) []models.Comment {
	rows := make([]models.Comment, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for i := range docs {
		doc := &docs[i]
		id := doc.ID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		entityType := doc.ParentEntityType
		if entityType == "" {
			entityType = parentType
		}
		entityID := doc.ParentEntityID.String()
		if entityID == "" {
			entityID = parentID
		}

		rows = append(rows, models.Comment{
			ID:                 id,
			ParentEntityType:   entityType,
			ParentEntityID:     entityID,
			ParentCommentID:    strPtr(doc.ParentCommentID.String()),
			Body:               strPtr(doc.Body),
			UserAddress:        strPtr(doc.UserAddress),
			ReplyAddress:       strPtr(doc.ReplyAddress),
			ReportCount:        numInt(doc.ReportCount),
			ReactionCount:      numInt(doc.ReactionCount),
			ProfileName:        strPtr(doc.Profile.Name),
			ProfilePseudonym:   strPtr(doc.Profile.Pseudonym),
			ProfileBio:         strPtr(doc.Profile.Bio),
			ProfileIsMod:       flagPtr(doc.Profile.IsMod),
			ProfileIsCreator:   flagPtr(doc.Profile.IsCreator),
			ProfileProxyWallet: strPtr(doc.Profile.ProxyWallet),
			ProfileImage:       strPtr(doc.Profile.ProfileImage),
			ExternalCreatedAt:  tsPtr(doc.CreatedAt),
			ExternalUpdatedAt:  tsPtr(doc.UpdatedAt),
			FetchedAt:          now,
			RawJSON:            mustJSON(doc),
		})
	}
	return rows
}

// MapReactions flattens one comment's reaction listing. The comment id of
// the request wins over whatever the payload claims.
func MapReactions(commentID string, docs []gamma.Reaction, now time.Time) []models.CommentReaction {
	rows := make([]models.CommentReaction, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for i := range docs {
		doc := &docs[i]
		id := doc.ID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		rows = append(rows, models.CommentReaction{
			ID:                 id,
			CommentID:          commentID,
			ReactionType:       strPtr(doc.ReactionType),
			Icon:               strPtr(doc.Icon),
			UserAddress:        strPtr(doc.UserAddress),
			ProfileName:        strPtr(doc.Profile.Name),
			ProfileProxyWallet: strPtr(doc.Profile.ProxyWallet),
			ExternalCreatedAt:  tsPtr(doc.CreatedAt),
			FetchedAt:          now,
		})
	}
	return rows
}
