package domain

// VoteDirection is the stored type of a reputation vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is up or down.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

func (d VoteDirection) sign() int {
	if d == VoteUp {
		return 1
	}
	return -1
}

// VoteOp is the mutation applied to the vote row.
type VoteOp string

const (
	VoteInserted VoteOp = "inserted"
	VoteRemoved  VoteOp = "removed"
	VoteSwitched VoteOp = "switched"
)

// VoteTransition describes how one vote call changes the ledger.
type VoteTransition struct {
	Op VoteOp
	// Delta is added to the target's reputation.
	Delta int
	// Current is the direction stored after the call, nil when no row remains.
	Current *VoteDirection
}

// ResolveVote computes the transition for a voter that currently holds
// existing (nil when there is no row) and requests a vote in direction req.
//
//	none  + up   → insert,  +1
//	up    + up   → remove,  -1
//	down  + up   → switch,  +2
func ResolveVote(existing *VoteDirection, req VoteDirection) VoteTransition {
	switch {
	case existing == nil:
		return VoteTransition{Op: VoteInserted, Delta: req.sign(), Current: &req}
	case *existing == req:
		return VoteTransition{Op: VoteRemoved, Delta: -req.sign()}
	default:
		return VoteTransition{Op: VoteSwitched, Delta: 2 * req.sign(), Current: &req}
	}
}

// VoteResult is returned after a vote is applied.
type VoteResult struct {
	Reputation int            `json:"reputation"`
	HasVoted   bool           `json:"hasVoted"`
	VoteType   *VoteDirection `json:"voteType"`
}

// VoteStatus is the caller's current vote on a target.
type VoteStatus struct {
	HasVoted bool           `json:"hasVoted"`
	VoteType *VoteDirection `json:"voteType"`
}
