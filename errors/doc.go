/*
Package errors provides semantic error types for the bus subscription registry.

The package defines the failure taxonomy of the registry with specific types that
can be checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrInvalidArgument     = errors.New("invalid argument")
	    ErrStoreNotProvisioned = errors.New("subscription store not provisioned")
	    ErrStoreAccess         = errors.New("subscription store access failed")
	    ErrAlreadyBound        = errors.New("registry already bound")
	    ErrUnknownQuery        = errors.New("unknown query")
	)

Usage:

	addrs, err := reg.Lookup(ctx, "Invoice.Paid")
	if err != nil {
	    if errors.IsStoreAccess(err) {
	        // the store failed; the cache was not populated and a later Lookup retries
	        return err
	    }
	    return err
	}

StoreAccessError unwraps to the store's own error, so callers can still match
driver specific failures with errors.As.
*/
package errors
