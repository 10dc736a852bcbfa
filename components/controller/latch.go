package controller

// Latch turns a held button into a single press: Run returns true only on the
// tick where the value goes from false to true.
type Latch struct {
	val bool
}

func (l *Latch) Run(v bool) bool {
	r := v && !l.val
	l.val = v
	return r
}
