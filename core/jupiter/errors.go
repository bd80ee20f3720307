package jupiter

import "fmt"

// UpstreamHTTPError is a non-2xx answer from any aggregator endpoint.
// Message carries the body "error" field when the upstream sent one.
type UpstreamHTTPError struct {
	Status  int
	Message string
}

func (e *UpstreamHTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error (status %d)", e.Status)
}

// NoRouteError means the aggregator answered but the response carried no
// discoverable route between the two mints.
type NoRouteError struct {
	InputMint  string
	OutputMint string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route found from %s to %s", e.InputMint, e.OutputMint)
}

// SwapBuildError is a failure building the unsigned swap transaction.
type SwapBuildError struct {
	Status  int
	Message string
}

func (e *SwapBuildError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("swap build failed (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("swap build failed (status %d)", e.Status)
}
