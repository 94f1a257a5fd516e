package emoji

import (
	"strings"

	uaxemoji "github.com/npillmayer/uax/emoji"
)

// Emoji is one entry of the canonical emoji database: a fully-qualified
// codepoint sequence, its CLDR short name, and the alternate (minimally-
// qualified or unqualified) spellings the Unicode data lists for it.
type Emoji struct {
	Sequence   Sequence
	Name       string
	Alternates []Sequence
}

// Database is the canonical emoji oracle, built from the Unicode
// emoji-test.txt data. Lookups are exact over canonical and alternate
// sequences; no normalization is applied.
type Database struct {
	emojis []*Emoji
	bySeq  map[string]*Emoji
}

// NewDatabase builds a Database from emoji-test.txt-format lines.
//
// Rows flagged fully-qualified (and component rows, which have no qualified
// variants) create entries; minimally-qualified and unqualified rows
// register as alternates of the preceding fully-qualified entry. The data
// is authoritative: rows whose leading scalar the UTS #51 classifier does
// not consider emoji-classed are accepted anyway, but traced.
func NewDatabase(lines []string) *Database {
	uaxemoji.SetupEmojisClasses()
	db := &Database{bySeq: make(map[string]*Emoji)}
	var current *Emoji
	for _, line := range lines {
		if i := strings.IndexByte(line, '#'); i == 0 {
			continue
		}
		semi := strings.IndexByte(line, ';')
		if semi < 0 {
			continue
		}
		seq, err := ParseHex(strings.TrimSpace(line[:semi]))
		if err != nil {
			continue
		}
		status, comment := line[semi+1:], ""
		if i := strings.IndexByte(status, '#'); i >= 0 {
			status, comment = status[:i], status[i+1:]
		}
		switch strings.TrimSpace(status) {
		case "fully-qualified", "component":
			e := &Emoji{Sequence: seq, Name: shortName(comment)}
			db.emojis = append(db.emojis, e)
			db.register(e, seq)
			current = e
			if uaxemoji.EmojisClassForRune(seq[0]) < 0 {
				tracer().Debugf("database entry %s is not emoji-classed per UTS #51", seq.Hex())
			}
		case "minimally-qualified", "unqualified":
			if current == nil {
				continue
			}
			current.Alternates = append(current.Alternates, seq)
			db.register(current, seq)
		}
	}
	tracer().Infof("emoji database holds %d entries", len(db.emojis))
	return db
}

func (db *Database) register(e *Emoji, seq Sequence) {
	key := string([]rune(seq))
	if _, dup := db.bySeq[key]; dup {
		tracer().Debugf("database lists sequence %s twice", seq.Hex())
		return
	}
	db.bySeq[key] = e
}

// FindBySequence returns the database entry whose canonical sequence or one
// of whose alternates is codepoint-identical to seq.
func (db *Database) FindBySequence(seq Sequence) (*Emoji, bool) {
	e, ok := db.bySeq[string([]rune(seq))]
	return e, ok
}

// Len returns the number of entries (canonical sequences) in the database.
func (db *Database) Len() int {
	return len(db.emojis)
}

// shortName extracts the CLDR short name from an emoji-test.txt comment,
// which reads "<emoji> E<version> <name>".
func shortName(comment string) string {
	fields := strings.Fields(comment)
	for i, f := range fields {
		if len(f) > 1 && f[0] == 'E' && strings.ContainsAny(f[1:2], "0123456789") {
			return strings.Join(fields[i+1:], " ")
		}
	}
	return ""
}
