package journal

import (
	"github.com/juev/ledger-textual/internal/account"
	"github.com/juev/ledger-textual/internal/amount"
)

// Finalizer runs on every ordinary entry before it is balanced and stored.
type Finalizer interface {
	FinalizeEntry(e *Entry) error
}

type Journal struct {
	Master      *account.Account
	Commodities *amount.Registry

	Entries       []*Entry
	AutoEntries   []*Entry
	PeriodEntries []*Entry

	// Sources is append-only; an index into it identifies a file.
	Sources []string

	finalizers []Finalizer
}

func New() *Journal {
	return &Journal{
		Master:      account.NewMaster(),
		Commodities: amount.NewRegistry(),
	}
}

func (j *Journal) AddSource(path string) int {
	j.Sources = append(j.Sources, path)
	return len(j.Sources) - 1
}

func (j *Journal) AddFinalizer(f Finalizer) {
	j.finalizers = append(j.finalizers, f)
}

func (j *Journal) RemoveFinalizer(f Finalizer) {
	for i, existing := range j.finalizers {
		if existing == f {
			j.finalizers = append(j.finalizers[:i], j.finalizers[i+1:]...)
			return
		}
	}
}

// AddEntry runs the registered finalizers, balances the entry and appends it.
// A rejected entry is not stored.
func (j *Journal) AddEntry(e *Entry) error {
	for _, f := range j.finalizers {
		if err := f.FinalizeEntry(e); err != nil {
			return err
		}
	}
	if err := e.Finalize(); err != nil {
		return err
	}
	j.Entries = append(j.Entries, e)
	return nil
}

func (j *Journal) AddAutoEntry(e *Entry) {
	j.AutoEntries = append(j.AutoEntries, e)
}

func (j *Journal) AddPeriodEntry(e *Entry) {
	j.PeriodEntries = append(j.PeriodEntries, e)
}

// ExtendEntryBase applies every automated entry to e.
func (j *Journal) ExtendEntryBase(e *Entry) {
	for _, auto := range j.AutoEntries {
		auto.Extend(e)
	}
}

// EntriesIn returns the entries of kind k recorded from the given source.
func (j *Journal) EntriesIn(k Kind, fileIndex int) []*Entry {
	var list []*Entry
	switch k {
	case KindAutomated:
		list = j.AutoEntries
	case KindPeriodic:
		list = j.PeriodEntries
	default:
		list = j.Entries
	}
	var out []*Entry
	for _, e := range list {
		if e.Source.FileIndex == fileIndex {
			out = append(out, e)
		}
	}
	return out
}
