package election

import (
	"math"
	"testing"

	"github.com/iov-one/valgov"
	"github.com/iov-one/valgov/errors"
	"github.com/iov-one/valgov/weavetest"
)

func TestBaseValidator(t *testing.T) {
	f := newFixture(t)
	base := f.base()

	cases := map[string]struct {
		mutate  func(*Election)
		signers []valgov.Condition
		wantErr *errors.Error
	}{
		"valid": {
			signers: f.signers[:1],
		},
		"proposer did not sign": {
			signers: f.signers[1:],
			wantErr: errors.ErrUnauthorized,
		},
		"proposer not an elector": {
			mutate: func(e *Election) {
				e.Proposer = weavetest.RandomAddr(t)
			},
			signers: f.signers,
			wantErr: errors.ErrUnauthorized,
		},
		"unknown type": {
			mutate:  func(e *Election) { e.Type = "unknown" },
			signers: f.signers[:1],
			wantErr: errors.ErrNotFound,
		},
		"empty payload": {
			mutate:  func(e *Election) { e.Payload = nil },
			signers: f.signers[:1],
			wantErr: errors.ErrEmpty,
		},
		"empty electorate": {
			mutate: func(e *Election) {
				e.Electorate = nil
				e.TotalWeight = 0
			},
			signers: f.signers[:1],
			wantErr: errors.ErrEmpty,
		},
		"weight mismatch": {
			mutate:  func(e *Election) { e.TotalWeight = 1 },
			signers: f.signers[:1],
			wantErr: errors.ErrState,
		},
		"weight overflow": {
			mutate: func(e *Election) {
				e.Electorate[1].Weight = math.MaxUint64
			},
			signers: f.signers[:1],
			wantErr: errors.ErrOverflow,
		},
		"not ongoing": {
			mutate:  func(e *Election) { e.Status = StatusApproved },
			signers: f.signers[:1],
			wantErr: errors.ErrState,
		},
		"invalid threshold": {
			mutate:  func(e *Election) { e.Threshold = valgov.Fraction{Numerator: 1, Denominator: 3} },
			signers: f.signers[:1],
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := f.newElection(t, "note", "payload")
			if tc.mutate != nil {
				tc.mutate(e)
			}
			ctx := blockCtx(1, tc.signers...)
			if err := base.Validate(ctx, nil, e); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
