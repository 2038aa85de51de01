package internal

const DefaultFlushLimit = 100_000

type Scheduler struct {
	// incremented on every signal write, used for staleness detection
	epoch uint64

	// maximum number of tasks drained by a single flush
	limit int

	scheduled bool
	running   bool
}

func NewScheduler(limit int) *Scheduler {
	if limit <= 0 {
		limit = DefaultFlushLimit
	}

	return &Scheduler{
		limit: limit,

		scheduled: false,
		running:   false,
	}
}

// Run calls fn unless a flush is already running or nothing was scheduled.
func (s *Scheduler) Run(fn func()) {
	if s.running || !s.scheduled {
		return
	}

	s.scheduled = false
	s.running = true
	defer func() { s.running = false }()

	fn()
}

func (s *Scheduler) Schedule() {
	s.scheduled = true
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}

func (s *Scheduler) Tick() {
	s.epoch++
}

func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

func (s *Scheduler) Limit() int {
	return s.limit
}
