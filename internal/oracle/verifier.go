package oracle

import (
	"fmt"

	"github.com/nats-io/nkeys"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// Verifier checks that a delivered randomness value really came from the
// oracle. The callback topic is the only sanctioned entry into round
// resolution, so the signature check runs before the payload reaches the
// service.
type Verifier interface {
	Verify(token lotterytypes.CorrelationToken, randomValue uint64, signature []byte) error
}

// NkeysVerifier verifies callback signatures against the oracle's nkeys
// (ed25519) public key.
type NkeysVerifier struct {
	keyPair nkeys.KeyPair
}

func NewNkeysVerifier(publicKey string) (*NkeysVerifier, error) {
	kp, err := nkeys.FromPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid oracle public key: %w", err)
	}
	return &NkeysVerifier{keyPair: kp}, nil
}

// SigningInput is the byte string the oracle signs for a delivery.
func SigningInput(token lotterytypes.CorrelationToken, randomValue uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d", token, randomValue))
}

func (v *NkeysVerifier) Verify(token lotterytypes.CorrelationToken, randomValue uint64, signature []byte) error {
	if len(signature) == 0 {
		return fmt.Errorf("randomness delivery carries no signature")
	}
	if err := v.keyPair.Verify(SigningInput(token, randomValue), signature); err != nil {
		return fmt.Errorf("randomness delivery signature rejected: %w", err)
	}
	return nil
}
