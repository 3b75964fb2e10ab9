package tool

import (
	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

// IdentityUpdate inspects the result of an identity tool and reports the
// session binding it establishes. Returns ok=false when the call was not an
// identity tool, failed, or the verification did not match.
func IdentityUpdate(call contract.ToolCall, res contract.APIResult) (string, contract.VerificationLevel, bool) {
	if res.Status != contract.StatusOK {
		return "", contract.VerificationNone, false
	}
	switch call.Name {
	case ToolIdentifyByPhone, ToolIdentifyByEmail:
		if info, ok := res.Payload.(services.CustomerInfo); ok {
			return info.CustomerID, contract.VerificationBasic, true
		}
	case ToolVerifyIdentity:
		if outcome, ok := res.Payload.(services.VerificationOutcome); ok && outcome.Verified {
			return outcome.CustomerID, contract.VerificationStrong, true
		}
	}
	return "", contract.VerificationNone, false
}

func payloadCustomerID(payload any) string {
	switch p := payload.(type) {
	case services.CustomerInfo:
		return p.CustomerID
	case services.VerificationOutcome:
		return p.CustomerID
	}
	return ""
}

func numberArg(args map[string]any, key string) decimal.Decimal {
	switch n := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return decimal.Zero
}
