package app

import (
	"context"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/config"
	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/store"
	"github.com/bifrost-finance/linker/x/batch"
	"github.com/bifrost-finance/linker/x/crossinout"
	"github.com/bifrost-finance/linker/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// Coordinator is implemented by multisig.Coordinator.
type Coordinator interface {
	Propose(ctx context.Context, call linker.Call) (multisig.Result, error)
	Approve(ctx context.Context, call linker.Call) (multisig.Result, error)
}

var _ Coordinator = (*multisig.Coordinator)(nil)

// Deps are the collaborators of a run.
type Deps struct {
	Store       store.Store
	Coordinator Coordinator
	Batcher     batch.Batcher
	Logger      log.Logger
}

// Report summarizes a finished run.
type Report struct {
	Role   config.Role
	Links  int
	Result multisig.Result
}

// Run is a single registration pass. It is either a ProposerRun or an
// ApproverRun.
type Run interface {
	Execute(ctx context.Context) (Report, error)
}

// NewRun returns the run matching the node role.
func NewRun(role config.Role, d Deps) Run {
	if d.Logger == nil {
		d.Logger = log.NewNopLogger()
	}
	d.Logger = d.Logger.With("role", role.String())
	if role == config.Proposer {
		return ProposerRun{d}
	}
	return ApproverRun{d}
}

// BuildBatch returns the batch registering all links, in their order.
func BuildBatch(links []linker.AccountLink, b batch.Batcher) (linker.Call, error) {
	calls, err := crossinout.BuildRegisterLinkCalls(links)
	if err != nil {
		return linker.Call{}, err
	}
	return b.Batch(calls)
}

// Prepare loads the account pairs and builds their batch.
func Prepare(ctx context.Context, s store.Store, b batch.Batcher) ([]linker.AccountLink, linker.Call, error) {
	links, err := s.Load(ctx)
	if err != nil {
		return nil, linker.Call{}, errors.Wrap(err, "load account pairs")
	}
	call, err := BuildBatch(links, b)
	if err != nil {
		return links, linker.Call{}, errors.Wrap(err, "build batch")
	}
	return links, call, nil
}

// ProposerRun opens the multisig operation and, once it is on chain,
// rewrites the store with the proposed account pairs.
type ProposerRun struct {
	Deps
}

func (r ProposerRun) Execute(ctx context.Context) (Report, error) {
	rep := Report{Role: config.Proposer}
	links, call, err := Prepare(ctx, r.Store, r.Batcher)
	rep.Links = len(links)
	if err != nil {
		return rep, err
	}
	r.Logger.Info("account pairs loaded", "links", len(links))

	rep.Result, err = r.Coordinator.Propose(ctx, call)
	if err != nil {
		return rep, err
	}
	if err := r.Store.Save(ctx, links); err != nil {
		return rep, errors.Wrap(err, "save account pairs")
	}
	r.Logger.Info("done", "state", rep.Result.State, "call_hash", rep.Result.CallHash.String())
	return rep, nil
}

// ApproverRun approves the pending operation matching the locally built
// batch. The store is never written.
type ApproverRun struct {
	Deps
}

func (r ApproverRun) Execute(ctx context.Context) (Report, error) {
	rep := Report{Role: config.Approver}
	links, call, err := Prepare(ctx, r.Store, r.Batcher)
	rep.Links = len(links)
	if err != nil {
		return rep, err
	}
	r.Logger.Info("account pairs loaded", "links", len(links))

	rep.Result, err = r.Coordinator.Approve(ctx, call)
	if err != nil {
		return rep, err
	}
	r.Logger.Info("done", "state", rep.Result.State, "call_hash", rep.Result.CallHash.String())
	return rep, nil
}
