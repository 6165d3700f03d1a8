package plex

import (
	"strconv"
	"strings"
)

// Section is a library section as listed by /library/sections.
type Section struct {
	ID    int
	Key   string
	Title string
	Type  string
}

// Entry is one playable item returned by a section's allLeaves listing.
// ViewCount and LastViewedAt are nil when the server omits them.
type Entry struct {
	RatingKey    string
	Key          string
	Type         string
	Title        string
	ParentTitle  string
	ViewCount    *int
	LastViewedAt *int64
	SizeBytes    int64
}

// Watched reports whether the entry has been played at least once.
func (e Entry) Watched() bool {
	return e.ViewCount != nil && *e.ViewCount >= 1
}

// Leaves is the decoded allLeaves listing of a section.
type Leaves struct {
	// MediaType is the container's view group (movie, show, episode, artist, ...).
	MediaType string
	Title     string
	Entries   []Entry
}

// Identity is the server identity reported by /identity.
type Identity struct {
	MachineIdentifier string
	Version           string
}

type sectionsContainer struct {
	Directories []directoryXML `xml:"Directory"`
}

type directoryXML struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type leavesContainer struct {
	ViewGroup string    `xml:"viewGroup,attr"`
	Title     string    `xml:"title1,attr"`
	Videos    []itemXML `xml:"Video"`
	Tracks    []itemXML `xml:"Track"`
}

type itemXML struct {
	RatingKey        string     `xml:"ratingKey,attr"`
	Key              string     `xml:"key,attr"`
	Type             string     `xml:"type,attr"`
	Title            string     `xml:"title,attr"`
	GrandparentTitle string     `xml:"grandparentTitle,attr"`
	ViewCount        string     `xml:"viewCount,attr"`
	LastViewedAt     string     `xml:"lastViewedAt,attr"`
	Media            []mediaXML `xml:"Media"`
}

type mediaXML struct {
	Parts []partXML `xml:"Part"`
}

type partXML struct {
	Size string `xml:"size,attr"`
}

type identityContainer struct {
	MachineIdentifier string `xml:"machineIdentifier,attr"`
	Version           string `xml:"version,attr"`
}

func (d directoryXML) section() (Section, bool) {
	key := strings.TrimSpace(d.Key)
	id, err := strconv.Atoi(key)
	if err != nil {
		return Section{}, false
	}
	return Section{ID: id, Key: key, Title: d.Title, Type: d.Type}, true
}

func (i itemXML) entry() Entry {
	entry := Entry{
		RatingKey:   i.RatingKey,
		Key:         i.Key,
		Type:        i.Type,
		Title:       i.Title,
		ParentTitle: i.GrandparentTitle,
	}
	if v, err := strconv.Atoi(strings.TrimSpace(i.ViewCount)); err == nil {
		entry.ViewCount = &v
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(i.LastViewedAt), 10, 64); err == nil {
		entry.LastViewedAt = &v
	}
	for _, media := range i.Media {
		for _, part := range media.Parts {
			if size, err := strconv.ParseInt(strings.TrimSpace(part.Size), 10, 64); err == nil && size > 0 {
				entry.SizeBytes += size
			}
		}
	}
	return entry
}
