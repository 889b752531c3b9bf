package account

import (
	"strings"
)

const Separator = ":"

// Account is a node in the account tree. Children are looked up
// case-insensitively but keep the spelling they were first created with.
type Account struct {
	Name     string
	Parent   *Account
	children map[string]*Account
	order    []*Account
}

// NewMaster returns an unnamed root account.
func NewMaster() *Account {
	return &Account{}
}

func (a *Account) FullName() string {
	if a.Parent == nil {
		return a.Name
	}
	var parts []string
	for acct := a; acct != nil && acct.Parent != nil; acct = acct.Parent {
		parts = append(parts, acct.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, Separator)
}

func (a *Account) Depth() int {
	depth := 0
	for acct := a; acct.Parent != nil; acct = acct.Parent {
		depth++
	}
	return depth
}

func (a *Account) Children() []*Account {
	return a.order
}

// Find walks the path without creating anything.
func (a *Account) Find(path string) (*Account, bool) {
	acct := a
	for _, part := range splitPath(path) {
		child, ok := acct.children[strings.ToLower(part)]
		if !ok {
			return nil, false
		}
		acct = child
	}
	return acct, true
}

// FindOrCreate resolves path relative to a, creating missing nodes.
func (a *Account) FindOrCreate(path string) *Account {
	acct := a
	for _, part := range splitPath(path) {
		key := strings.ToLower(part)
		child, ok := acct.children[key]
		if !ok {
			if acct.children == nil {
				acct.children = make(map[string]*Account)
			}
			child = &Account{Name: part, Parent: acct}
			acct.children[key] = child
			acct.order = append(acct.order, child)
		}
		acct = child
	}
	return acct
}

func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, Separator) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
