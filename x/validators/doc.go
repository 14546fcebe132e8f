/*
Package validators implements governance driven changes of the validator set.

A validator change is proposed with an election of type "upsert-validator"
(see the election package). The payload is a ValidatorChangeProposal with a
base58 encoded ed25519 public key and the new power. A zero power removes
the validator.

A proposal is valid only if the proposed power is strictly lower than one
third of the total voting power of the set effective at validation time.

Once the election is approved at height H, the proposal is merged into the
set effective at H and the result is stored as effective from
H + activation_delay. The single validator update is returned to the
consensus engine, see https://tendermint.com/docs/app-dev/abci-spec.html#endblock
for details.

Validator sets are kept as an append only history, one snapshot per height
at which the set changed.
*/
package validators
