package schema

import (
	"folio/pkg/character"
	"folio/pkg/utils"
)

type CharacterRequest struct {
	Species     string  `json:"species" jsonschema:"enum=human,enum=android,enum=other" jsonschema_description:"Species chosen in the first wizard step"`
	Gender      string  `json:"gender" jsonschema:"enum=male,enum=female,enum=other" jsonschema_description:"Gender chosen in the second wizard step"`
	Name        string  `json:"name" jsonschema_description:"Character name; blank picks a random one"`
	Photo       string  `json:"photo,omitempty" jsonschema_description:"Optional reference photo as a data URL (data:image/png;base64,...)"`
	PhotoGender string  `json:"photoGender,omitempty" jsonschema:"enum=male,enum=female,enum=other" jsonschema_description:"Apparent gender of the person in the photo, when known"`
	Seed        *uint64 `json:"seed,omitempty" jsonschema_description:"Fixes every random choice so the same request gives the same prompt"`
}

type CharacterResponse struct {
	character.Result
	ID       string        `json:"id,omitempty"`
	ImageURL string        `json:"imageUrl,omitempty"`
	NameDiff []utils.Delta `json:"nameDiff"`
}

// GenerateImageRequest is the older single-call contract: the client sends a
// finished prompt and gets an image URL back.
type GenerateImageRequest struct {
	Prompt    string `json:"prompt" jsonschema_description:"Full image prompt"`
	ImageURL  string `json:"imageUrl,omitempty" jsonschema_description:"Reference image as a data URL or a /api/media URL"`
	Timestamp int64  `json:"timestamp,omitempty" jsonschema_description:"Client clock in milliseconds, echoed into logs"`
}

type GenerateImageResponse struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type GalleryEntry struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	DisplayName string             `json:"displayName"`
	Species     character.Resolved `json:"resolvedSpecies"`
	Gender      character.Gender   `json:"gender"`
	Prompt      string             `json:"prompt"`
	ImageURL    string             `json:"imageUrl"`
	CreatedAt   string             `json:"createdAt"`
}
