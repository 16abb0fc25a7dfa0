// Package notes reads and writes the PokerStars player notes XML document.
//
// The client keeps one notes file per account: a label taxonomy (numeric id
// plus an RRGGBB color) and at most one note per player name, stamped with a
// unix-epoch update time. This package edits the document in memory; Save
// writes the canonical XML form back out.
package notes

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrLabelNotFound = errors.New("label not found")
	ErrInvalidColor  = errors.New("invalid label color")
)

// noLabelID is the id the client writes for an unlabeled note.
const noLabelID = "-1"

var reColor = regexp.MustCompile(`^[0-9A-F]{6}$`)

// Label is one entry of the label taxonomy.
type Label struct {
	ID    string `xml:"id,attr"`
	Color string `xml:"color,attr"`
	Name  string `xml:",chardata"`
}

// Note is one player's note. Update is a unix-epoch second stamp, zero when
// the client never recorded one.
type Note struct {
	Player  string `xml:"player,attr"`
	LabelID string `xml:"label,attr,omitempty"`
	Update  int64  `xml:"update,attr,omitempty"`
	Text    string `xml:",chardata"`
}

// Document is a parsed notes file.
type Document struct {
	XMLName xml.Name `xml:"notes"`
	Version string   `xml:"version,attr"`
	Labels  []Label  `xml:"labels>label"`
	Notes   []Note   `xml:"note"`
}

// NewDocument returns an empty notes document in the current file version.
func NewDocument() *Document {
	return &Document{Version: "1"}
}

// Parse reads a notes document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode notes xml: %w", err)
	}
	return &doc, nil
}

// ParseFile reads a notes document from the file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Save writes the document as indented XML.
func (d *Document) Save(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode notes xml: %w", err)
	}
	return enc.Close()
}

// SaveFile writes the document to the file at path, replacing it.
func (d *Document) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Players returns the noted player names, sorted.
func (d *Document) Players() []string {
	names := make([]string, 0, len(d.Notes))
	for _, n := range d.Notes {
		names = append(names, n.Player)
	}
	sort.Strings(names)
	return names
}

// Note returns the note for player.
func (d *Document) Note(player string) (Note, error) {
	i := d.noteIndex(player)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %q", ErrNoteNotFound, player)
	}
	return d.Notes[i], nil
}

// NoteText returns the note text for player.
func (d *Document) NoteText(player string) (string, error) {
	n, err := d.Note(player)
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

// NoteLabel resolves the label of player's note. A nil label with nil error
// means the note is unlabeled.
func (d *Document) NoteLabel(player string) (*Label, error) {
	n, err := d.Note(player)
	if err != nil {
		return nil, err
	}
	if n.LabelID == "" || n.LabelID == noLabelID {
		return nil, nil
	}
	for _, l := range d.Labels {
		if l.ID == n.LabelID {
			label := l
			return &label, nil
		}
	}
	return nil, fmt.Errorf("%w: id %q", ErrLabelNotFound, n.LabelID)
}

// AddNote records a note for player, replacing any existing one. labelName
// may be empty for an unlabeled note; a non-empty name must exist in the
// taxonomy. A zero update time means now.
func (d *Document) AddNote(player, text, labelName string, update time.Time) error {
	labelID := noLabelID
	if labelName != "" {
		l, err := d.Label(labelName)
		if err != nil {
			return err
		}
		labelID = l.ID
	}
	if update.IsZero() {
		update = time.Now()
	}

	note := Note{Player: player, LabelID: labelID, Update: update.Unix(), Text: text}
	if i := d.noteIndex(player); i >= 0 {
		d.Notes[i] = note
		return nil
	}
	d.Notes = append(d.Notes, note)
	return nil
}

// AppendNote adds text to the end of player's existing note.
func (d *Document) AppendNote(player, text string) error {
	i := d.noteIndex(player)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, player)
	}
	d.Notes[i].Text += text
	d.Notes[i].Update = time.Now().Unix()
	return nil
}

// PrependNote adds text to the start of player's existing note.
func (d *Document) PrependNote(player, text string) error {
	i := d.noteIndex(player)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, player)
	}
	d.Notes[i].Text = text + d.Notes[i].Text
	d.Notes[i].Update = time.Now().Unix()
	return nil
}

// ReplaceNote swaps the text of player's existing note.
func (d *Document) ReplaceNote(player, text string) error {
	i := d.noteIndex(player)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, player)
	}
	d.Notes[i].Text = text
	d.Notes[i].Update = time.Now().Unix()
	return nil
}

// DeleteNote removes player's note.
func (d *Document) DeleteNote(player string) error {
	i := d.noteIndex(player)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, player)
	}
	d.Notes = append(d.Notes[:i], d.Notes[i+1:]...)
	return nil
}

// Label returns the label with the given name.
func (d *Document) Label(name string) (Label, error) {
	for _, l := range d.Labels {
		if l.Name == name {
			return l, nil
		}
	}
	return Label{}, fmt.Errorf("%w: %q", ErrLabelNotFound, name)
}

// AddLabel adds a label with the next free numeric id. The color must be six
// uppercase hex digits, as the client writes it.
func (d *Document) AddLabel(name, color string) error {
	if !reColor.MatchString(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	if _, err := d.Label(name); err == nil {
		return fmt.Errorf("label %q already exists", name)
	}

	maxID := -1
	for _, l := range d.Labels {
		if id, err := strconv.Atoi(l.ID); err == nil && id > maxID {
			maxID = id
		}
	}
	d.Labels = append(d.Labels, Label{
		ID:    strconv.Itoa(maxID + 1),
		Color: color,
		Name:  name,
	})
	return nil
}

// DeleteLabel removes the named label. Notes referencing it become unlabeled.
func (d *Document) DeleteLabel(name string) error {
	for i, l := range d.Labels {
		if l.Name != name {
			continue
		}
		for j := range d.Notes {
			if d.Notes[j].LabelID == l.ID {
				d.Notes[j].LabelID = noLabelID
			}
		}
		d.Labels = append(d.Labels[:i], d.Labels[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrLabelNotFound, name)
}

func (d *Document) noteIndex(player string) int {
	for i, n := range d.Notes {
		if n.Player == player {
			return i
		}
	}
	return -1
}
