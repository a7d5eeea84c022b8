package repository

import (
	"sort"

	"github.com/fathima-sithara/messaging-service/internal/domain"
)

// Both backends sort in process so their observable ordering is identical.
// Conversations order by last activity, newest first; the zero time
// (a summary that was never written) sorts last. Ties break on id so
// repeated listings page consistently.
func sortConversations(convs []*domain.Conversation) {
	sort.Slice(convs, func(i, j int) bool {
		if convs[i].LastMessageAt.Equal(convs[j].LastMessageAt) {
			return convs[i].ID > convs[j].ID
		}
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
}

// Messages order by created_at descending with an id tie-break for
// same-timestamp appends.
func sortMessages(msgs []*domain.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID > msgs[j].ID
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
}
