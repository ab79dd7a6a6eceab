package profile

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	// ErrMissingFields is returned when the inbound document omits one of the
	// five expected top-level fields. An explicit JSON null is fine; an
	// absent key is not.
	ErrMissingFields = errors.New("missing required user data fields")
	// ErrLastVisitedNotString is returned when lastVisitedProfile is present
	// but is neither a string nor null.
	ErrLastVisitedNotString = errors.New("lastVisitedProfile must be a string")
)

// Document is the per-user profile blob: saved map profiles, their parent
// map, the last visited profile name, and the virtual profile maps. The
// JSON fields are kept opaque; the backend stores and returns them without
// interpreting their contents.
type Document struct {
	SavedProfiles       json.RawMessage `json:"savedProfiles"`
	SavedProfilesParent json.RawMessage `json:"savedprofilesparent"`
	LastVisitedProfile  string          `json:"lastVisitedProfile"`
	VirtualProfiles     json.RawMessage `json:"virtualProfiles"`
	VirtualProfilesData json.RawMessage `json:"virtualProfilesData"`
}

// Empty returns the all-defaults document: empty objects and an empty string.
func Empty() Document {
	return Document{
		SavedProfiles:       emptyObject(),
		SavedProfilesParent: emptyObject(),
		LastVisitedProfile:  "",
		VirtualProfiles:     emptyObject(),
		VirtualProfilesData: emptyObject(),
	}
}

func emptyObject() json.RawMessage {
	return json.RawMessage("{}")
}

// Normalize maps a stored JSON value to something safe to return: nil,
// empty, whitespace-only and explicit null all collapse to an empty object.
// The second return value reports whether the stored value was unparseable
// and got replaced, so callers can log it.
func Normalize(raw []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject(), false
	}

	if !json.Valid(trimmed) {
		return emptyObject(), true
	}

	out := make(json.RawMessage, len(trimmed))
	copy(out, trimmed)

	return out, false
}

// UpdateRequest carries the inbound PUT body. json.RawMessage fields stay
// nil when a key is absent, which is how "absent" is told apart from an
// explicit null after decoding.
type UpdateRequest struct {
	SavedProfiles       json.RawMessage `json:"savedProfiles"`
	SavedProfilesParent json.RawMessage `json:"savedprofilesparent"`
	LastVisitedProfile  json.RawMessage `json:"lastVisitedProfile"`
	VirtualProfiles     json.RawMessage `json:"virtualProfiles"`
	VirtualProfilesData json.RawMessage `json:"virtualProfilesData"`
}

// Document validates the request and produces the document to store. All
// five fields must be present; null values are normalized to their empty
// defaults. This is whole-document replacement, so the result always carries
// every field.
func (r UpdateRequest) Document() (Document, error) {
	if r.SavedProfiles == nil || r.SavedProfilesParent == nil ||
		r.LastVisitedProfile == nil || r.VirtualProfiles == nil ||
		r.VirtualProfilesData == nil {
		return Document{}, ErrMissingFields
	}

	lastVisited := ""

	if !isNull(r.LastVisitedProfile) {
		err := json.Unmarshal(r.LastVisitedProfile, &lastVisited)

		if err != nil {
			return Document{}, ErrLastVisitedNotString
		}
	}

	return Document{
		SavedProfiles:       nullToEmpty(r.SavedProfiles),
		SavedProfilesParent: nullToEmpty(r.SavedProfilesParent),
		LastVisitedProfile:  lastVisited,
		VirtualProfiles:     nullToEmpty(r.VirtualProfiles),
		VirtualProfilesData: nullToEmpty(r.VirtualProfilesData),
	}, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return emptyObject()
	}

	return raw
}
