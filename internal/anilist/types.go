// AniList GraphQL API response types based on https://docs.anilist.co/reference
package anilist

import "fmt"

// MediaListStatus is the watch status of a list entry on AniList.
type MediaListStatus string

const (
	StatusCurrent   MediaListStatus = "CURRENT"
	StatusPlanning  MediaListStatus = "PLANNING"
	StatusCompleted MediaListStatus = "COMPLETED"
	StatusDropped   MediaListStatus = "DROPPED"
	StatusPaused    MediaListStatus = "PAUSED"
	StatusRepeating MediaListStatus = "REPEATING"
)

// Valid reports whether the status is one of the six values AniList defines.
func (s MediaListStatus) Valid() bool {
	switch s {
	case StatusCurrent, StatusPlanning, StatusCompleted, StatusDropped, StatusPaused, StatusRepeating:
		return true
	}
	return false
}

// ParseStatus converts a stored string back into a [MediaListStatus].
func ParseStatus(s string) (MediaListStatus, error) {
	status := MediaListStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown media list status %q", s)
	}
	return status, nil
}

// ListEntry is a user's tracked record for one title: watch status, episode
// progress, and rewatch count.
type ListEntry struct {
	ID       *int            `json:"id"` // nil means the entry does not exist yet
	MediaID  int             `json:"mediaId"`
	Progress int             `json:"progress"`
	Status   MediaListStatus `json:"status"`
	Repeat   int             `json:"repeat"`
}

// Viewer is the authenticated AniList user.
type Viewer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SaveEntryInput carries the fields of a create-or-update mutation.
// Nil fields are omitted from the request so the server merges rather than
// overwrites unset values.
type SaveEntryInput struct {
	EntryID  *int
	MediaID  *int
	Progress *int
	Status   *MediaListStatus
	Repeat   *int
}

// variables builds the GraphQL variables map, omitting unset fields.
func (in SaveEntryInput) variables() map[string]any {
	vars := map[string]any{}
	if in.EntryID != nil {
		vars["id"] = *in.EntryID
	}
	if in.MediaID != nil {
		vars["mediaId"] = *in.MediaID
	}
	if in.Progress != nil {
		vars["progress"] = *in.Progress
	}
	if in.Status != nil {
		vars["status"] = *in.Status
	}
	if in.Repeat != nil {
		vars["repeat"] = *in.Repeat
	}
	return vars
}

// envelope is the top-level GraphQL response: either data or a non-empty
// error list.
type envelope struct {
	Data   *payload   `json:"data"`
	Errors []APIError `json:"errors"`
}

// payload holds the union of all data shapes the client requests.
type payload struct {
	Viewer    *Viewer    `json:"Viewer"`
	Media     *media     `json:"Media"`
	SaveEntry *ListEntry `json:"SaveMediaListEntry"`
}

// media is the subset of the AniList Media object the client reads.
type media struct {
	Episodes  *int       `json:"episodes"` // nil when unknown or still airing
	ListEntry *ListEntry `json:"mediaListEntry"`
}

// graphQLBody is the request document sent to the GraphQL endpoint.
type graphQLBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// TokenResponse is the OAuth authorization-code exchange response.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
