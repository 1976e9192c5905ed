package lotteryqueue

// StallScanArgs is the periodic job that looks for rounds stuck in the
// full state past the configured deadline. The scan only observes: it
// publishes a RoundStalled event per stuck round and leaves recovery to
// an operator.
type StallScanArgs struct{}

// Kind returns the job type identifier for River
func (StallScanArgs) Kind() string { return "lottery_stall_scan" }
