package contract

import "strings"

// ABIEntry is one ABI entry (constructor, function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// Signature renders "name(type name, ...)". Constructors use "constructor".
func (e ABIEntry) Signature() string {
	name := e.Name
	if e.Type == "constructor" {
		name = "constructor"
	}
	parts := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		if p.Name != "" {
			parts[i] = p.Type + " " + p.Name
		} else {
			parts[i] = p.Type
		}
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Summary counts the entries of each kind in an ABI.
type Summary struct {
	Reads, Writes, Events int
	HasConstructor        bool
}

// Summarize counts functions and events.
func Summarize(abi []ABIEntry) Summary {
	var s Summary
	for _, e := range abi {
		switch {
		case e.Type == "constructor":
			s.HasConstructor = true
		case e.IsReadFunction():
			s.Reads++
		case e.IsWriteFunction():
			s.Writes++
		case e.Type == "event":
			s.Events++
		}
	}
	return s
}
