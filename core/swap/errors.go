package swap

import "fmt"

// TransactionFailedError is an on-chain rejection after submission. Err
// carries the confirmation error payload as reported by the network.
type TransactionFailedError struct {
	Signature string
	Err       interface{}
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed on chain: %v", e.Signature, e.Err)
}

// ConfirmationPendingError means the transaction was broadcast but
// confirmation was not observed before the poll deadline. The caller
// must direct the user to check the chain for the signature instead of
// retrying: a blind retry risks a double spend.
type ConfirmationPendingError struct {
	Signature string
}

func (e *ConfirmationPendingError) Error() string {
	return fmt.Sprintf("transaction %s submitted but not yet confirmed", e.Signature)
}
