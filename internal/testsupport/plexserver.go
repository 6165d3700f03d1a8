package testsupport

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeSection is a library section served by FakePlex.
type FakeSection struct {
	ID        int
	Title     string
	Type      string
	ViewGroup string
	Items     []FakeItem
}

// FakeItem is one leaf of a FakeSection. Zero ViewCount or LastViewedAt
// omit the attribute.
type FakeItem struct {
	RatingKey        string
	Title            string
	GrandparentTitle string
	ViewCount        int
	LastViewedAt     int64
	Size             int64
}

// Key returns the metadata path used to delete the item.
func (i FakeItem) Key() string {
	return "/library/metadata/" + i.RatingKey
}

// FakePlex is an httptest server speaking the subset of the Plex API the
// cleanup workflow uses.
type FakePlex struct {
	Server *httptest.Server
	Token  string

	mu         sync.Mutex
	sections   []FakeSection
	deleted    []string
	failDelete map[string]bool
	failList   bool
	requests   map[string]int
}

// NewFakePlex starts a fake server and registers its shutdown.
func NewFakePlex(t testing.TB, token string, sections ...FakeSection) *FakePlex {
	t.Helper()

	fake := &FakePlex{
		Token:      token,
		sections:   sections,
		failDelete: map[string]bool{},
		requests:   map[string]int{},
	}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Server.Close)
	return fake
}

// URL returns the server base URL.
func (f *FakePlex) URL() string {
	return f.Server.URL
}

// FailDelete makes DELETE requests for key answer 500.
func (f *FakePlex) FailDelete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDelete[key] = true
}

// FailSectionList makes /library/sections answer 500.
func (f *FakePlex) FailSectionList() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failList = true
}

// Deleted returns the keys deleted so far, in order.
func (f *FakePlex) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// Requests returns how often "METHOD path" was requested.
func (f *FakePlex) Requests(methodPath string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[methodPath]
}

func (f *FakePlex) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests[r.Method+" "+r.URL.Path]++
	// Like Plex, /identity answers without a token.
	if f.Token != "" && r.URL.Path != "/identity" && r.Header.Get("X-Plex-Token") != f.Token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/identity":
		writeXML(w, `<MediaContainer machineIdentifier="fake-plex" version="1.40.0"/>`)
	case r.Method == http.MethodGet && path == "/library/sections":
		if f.failList {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeXML(w, f.sectionsXML())
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/library/sections/") && strings.HasSuffix(path, "/allLeaves"):
		raw := strings.TrimSuffix(strings.TrimPrefix(path, "/library/sections/"), "/allLeaves")
		id, err := strconv.Atoi(raw)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		section, ok := f.section(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeXML(w, leavesXML(section))
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/library/metadata/"):
		if f.failDelete[path] {
			http.Error(w, "delete failed", http.StatusInternalServerError)
			return
		}
		f.deleted = append(f.deleted, path)
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakePlex) section(id int) (FakeSection, bool) {
	for _, s := range f.sections {
		if s.ID == id {
			return s, true
		}
	}
	return FakeSection{}, false
}

func (f *FakePlex) sectionsXML() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<MediaContainer size="%d">`, len(f.sections))
	for _, s := range f.sections {
		fmt.Fprintf(&b, `<Directory key="%d" type=%s title=%s/>`, s.ID, quoteAttr(s.Type), quoteAttr(s.Title))
	}
	b.WriteString(`</MediaContainer>`)
	return b.String()
}

func leavesXML(section FakeSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<MediaContainer size="%d" viewGroup=%s title1=%s>`, len(section.Items), quoteAttr(section.ViewGroup), quoteAttr(section.Title))
	for _, item := range section.Items {
		fmt.Fprintf(&b, `<Video ratingKey=%s key=%s title=%s`, quoteAttr(item.RatingKey), quoteAttr(item.Key()), quoteAttr(item.Title))
		if item.GrandparentTitle != "" {
			fmt.Fprintf(&b, ` grandparentTitle=%s`, quoteAttr(item.GrandparentTitle))
		}
		if item.ViewCount > 0 {
			fmt.Fprintf(&b, ` viewCount="%d"`, item.ViewCount)
		}
		if item.LastViewedAt > 0 {
			fmt.Fprintf(&b, ` lastViewedAt="%d"`, item.LastViewedAt)
		}
		fmt.Fprintf(&b, `><Media><Part size="%d"/></Media></Video>`, item.Size)
	}
	b.WriteString(`</MediaContainer>`)
	return b.String()
}

func quoteAttr(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	_ = xml.EscapeText(&b, []byte(value))
	b.WriteByte('"')
	return b.String()
}

func writeXML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(body))
}
