// Package path resolves human-readable addresses such as
// "/ledger:Checking/account#3" into index locations within a book.
package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/book"
)

// Kind is the type of object a Location addresses.
type Kind int

const (
	KindBook Kind = iota
	KindLedger
	KindJournal
	KindAccount
	KindEntry
)

var kindWords = map[Kind]string{
	KindBook:    "book",
	KindLedger:  "ledger",
	KindJournal: "journal",
	KindAccount: "account",
	KindEntry:   "entry",
}

func (k Kind) String() string {
	if w, ok := kindWords[k]; ok {
		return w
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrSyntax    = fmt.Errorf("path syntax: %w", book.ErrInvalid)
	ErrWrongKind = fmt.Errorf("path names the wrong kind of object: %w", book.ErrInvalid)
)

// Location is a resolved path. Indices[0] is the ledger or journal index and
// Indices[1] the account or entry index; unused slots are -1.
type Location struct {
	Kind    Kind
	Indices [2]int
}

// Root is the location of the book itself.
var Root = Location{Kind: KindBook, Indices: [2]int{-1, -1}}

// String renders the location as an index path, e.g. "/ledger@0/account@2".
func (l Location) String() string {
	switch l.Kind {
	case KindLedger, KindJournal:
		return fmt.Sprintf("/%s@%d", l.Kind, l.Indices[0])
	case KindAccount:
		return fmt.Sprintf("/ledger@%d/account@%d", l.Indices[0], l.Indices[1])
	case KindEntry:
		return fmt.Sprintf("/journal@%d/entry@%d", l.Indices[0], l.Indices[1])
	default:
		return "/"
	}
}

// Parent returns the enclosing location. The parent of Root is Root.
func (l Location) Parent() Location {
	switch l.Kind {
	case KindAccount:
		return Location{Kind: KindLedger, Indices: [2]int{l.Indices[0], -1}}
	case KindEntry:
		return Location{Kind: KindJournal, Indices: [2]int{l.Indices[0], -1}}
	default:
		return Root
	}
}

// Resolve walks p from start. A leading "/" starts from the book; "." stays
// put and ".." moves up one level. Every other segment is word:name,
// word#id or word@index, where word names a child kind of the current level.
func Resolve(b *book.Book, p string, start Location) (Location, error) {
	loc := start
	if strings.HasPrefix(p, "/") {
		loc = Root
	}
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			loc = loc.Parent()
			continue
		}
		next, err := step(b, loc, seg)
		if err != nil {
			return Location{}, fmt.Errorf("resolving %q: %w", p, err)
		}
		loc = next
	}
	return loc, nil
}

func step(b *book.Book, loc Location, seg string) (Location, error) {
	at := strings.IndexAny(seg, ":#@")
	if at <= 0 || at == len(seg)-1 {
		return Location{}, fmt.Errorf("%w: segment %q", ErrSyntax, seg)
	}
	word, sep, arg := seg[:at], seg[at], seg[at+1:]

	kind, ok := childKind(loc.Kind, word)
	if !ok {
		return Location{}, fmt.Errorf("%w: no %q under %s", ErrWrongKind, word, loc.Kind)
	}

	var num int
	if sep != ':' {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Location{}, fmt.Errorf("%w: segment %q: %w", ErrSyntax, seg, err)
		}
		num = n
	}

	next := Location{Kind: kind, Indices: [2]int{-1, -1}}
	switch kind {
	case KindLedger:
		i, err := findLedger(b, sep, arg, num)
		if err != nil {
			return Location{}, err
		}
		next.Indices[0] = i
	case KindJournal:
		i, err := findJournal(b, sep, arg, num)
		if err != nil {
			return Location{}, err
		}
		next.Indices[0] = i
	case KindAccount:
		l, err := b.Ledger(loc.Indices[0])
		if err != nil {
			return Location{}, err
		}
		i, err := findAccount(l, sep, arg, num)
		if err != nil {
			return Location{}, err
		}
		next.Indices = [2]int{loc.Indices[0], i}
	case KindEntry:
		j, err := b.Journal(loc.Indices[0])
		if err != nil {
			return Location{}, err
		}
		i, err := findEntry(j, sep, arg, num)
		if err != nil {
			return Location{}, err
		}
		next.Indices = [2]int{loc.Indices[0], i}
	}
	return next, nil
}

func childKind(parent Kind, word string) (Kind, bool) {
	switch {
	case parent == KindBook && word == "ledger":
		return KindLedger, true
	case parent == KindBook && word == "journal":
		return KindJournal, true
	case parent == KindLedger && word == "account":
		return KindAccount, true
	case parent == KindJournal && word == "entry":
		return KindEntry, true
	}
	return 0, false
}

func findLedger(b *book.Book, sep byte, name string, num int) (int, error) {
	switch sep {
	case ':':
		return b.LedgerIndexByName(name)
	case '#':
		return b.LedgerIndexByID(num)
	}
	_, err := b.Ledger(num)
	return num, err
}

func findJournal(b *book.Book, sep byte, name string, num int) (int, error) {
	switch sep {
	case ':':
		return b.JournalIndexByName(name)
	case '#':
		return b.JournalIndexByID(num)
	}
	_, err := b.Journal(num)
	return num, err
}

func findAccount(l *book.Ledger, sep byte, name string, num int) (int, error) {
	switch sep {
	case ':':
		return l.AccountIndexByName(name)
	case '#':
		return l.AccountIndexByID(num)
	}
	_, err := l.Account(num)
	return num, err
}

func findEntry(j *book.Journal, sep byte, name string, num int) (int, error) {
	switch sep {
	case ':':
		return j.EntryIndexByName(name)
	case '#':
		return j.EntryIndexByID(num)
	}
	_, err := j.Entry(num)
	return num, err
}

// Resolver resolves transaction line paths for book.Commit. Relative paths
// start from Base.
type Resolver struct {
	Base Location
}

// NewResolver returns a Resolver rooted at the book.
func NewResolver() *Resolver {
	return &Resolver{Base: Root}
}

// ResolveAccount implements book.AccountResolver.
func (r *Resolver) ResolveAccount(b *book.Book, p string) (int, int, error) {
	loc, err := Resolve(b, p, r.Base)
	if err != nil {
		return -1, -1, err
	}
	if loc.Kind != KindAccount {
		return -1, -1, fmt.Errorf("%w: %q is a %s, not an account", ErrWrongKind, p, loc.Kind)
	}
	return loc.Indices[0], loc.Indices[1], nil
}
