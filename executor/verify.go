package executor

import "context"

// VerifyExecutor answers the platform's gateway ownership check. It has no
// side effects.
type VerifyExecutor struct {
	ChallengeToken string
}

func (e VerifyExecutor) Execute(context.Context) (string, error) {
	return BuildVerifyResponse(e.ChallengeToken), nil
}
