package tree

// Tx collects the changes made by one action. Reads see the tree as of the
// dispatch overlaid with the Tx's own writes.
type Tx struct {
	data    map[string]any
	changes []Change
}

// Get returns the value at path, or nil if absent.
func (tx *Tx) Get(path ...string) any {
	v, _ := getIn(tx.data, path)
	return v
}

// Set stores value at path, touching the path's first segment.
func (tx *Tx) Set(value any, path ...string) error {
	return tx.Push(Change{Path: path, Value: value})
}

// Delete removes the value at path.
func (tx *Tx) Delete(path ...string) error {
	return tx.Push(Change{Path: path, Delete: true})
}

// Push records a change with explicit channels.
func (tx *Tx) Push(c Change) error {
	if err := c.validate(); err != nil {
		return err
	}
	tx.data = apply(tx.data, c)
	tx.changes = append(tx.changes, c)
	return nil
}

// Changes returns the changes recorded so far.
func (tx *Tx) Changes() []Change {
	return tx.changes
}

// savepoint is a Tx state a failed attempt rolls back to.
type savepoint struct {
	data    map[string]any
	changes int
}

func (tx *Tx) save() savepoint {
	return savepoint{data: tx.data, changes: len(tx.changes)}
}

func (tx *Tx) restore(s savepoint) {
	tx.data = s.data
	tx.changes = tx.changes[:s.changes]
}
