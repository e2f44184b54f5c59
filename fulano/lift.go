package fulano

// Lift is a toy stateful handle: it holds a height and moves up and down.
// Mutation is in place; an instance belongs to whoever holds its handle and
// is not safe for concurrent use.
type Lift struct {
	Height int64
}

func NewLift(initialHeight int64) *Lift {
	return &Lift{Height: initialHeight}
}

func (l *Lift) Up(n int64) { l.Height += n }

func (l *Lift) Down(n int64) { l.Height -= n }
