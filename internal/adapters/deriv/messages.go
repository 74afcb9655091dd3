package deriv

import (
	"fmt"

	"smcTickBot/internal/ports"
)

// request is implemented by every outgoing message; the client stamps the
// req_id used to route the response back to the caller.
type request interface {
	setReqID(id int64)
}

type requestBase struct {
	ReqID int64 `json:"req_id"`
}

func (r *requestBase) setReqID(id int64) { r.ReqID = id }

type authorizeRequest struct {
	Authorize string `json:"authorize"`
	requestBase
}

type ticksRequest struct {
	Ticks     string `json:"ticks"`
	Subscribe int    `json:"subscribe"`
	requestBase
}

type pingRequest struct {
	Ping int `json:"ping"`
	requestBase
}

type forgetRequest struct {
	Forget string `json:"forget"`
	requestBase
}

type proposalRequest struct {
	Proposal     int     `json:"proposal"`
	Amount       float64 `json:"amount"`
	Basis        string  `json:"basis"`
	ContractType string  `json:"contract_type"`
	Currency     string  `json:"currency"`
	Duration     int     `json:"duration"`
	DurationUnit string  `json:"duration_unit"`
	Symbol       string  `json:"symbol"`
	Barrier      string  `json:"barrier"`
	requestBase
}

type buyRequest struct {
	Buy   string  `json:"buy"`
	Price float64 `json:"price"`
	requestBase
}

type openContractRequest struct {
	ProposalOpenContract int   `json:"proposal_open_contract"`
	ContractID           int64 `json:"contract_id"`
	Subscribe            int   `json:"subscribe"`
	requestBase
}

// envelope is the union of every response shape the client reads.
type envelope struct {
	MsgType string    `json:"msg_type"`
	ReqID   int64     `json:"req_id"`
	Error   *APIError `json:"error"`

	Authorize *struct {
		LoginID  string  `json:"loginid"`
		Balance  float64 `json:"balance"`
		Currency string  `json:"currency"`
	} `json:"authorize"`

	Tick *struct {
		Symbol string  `json:"symbol"`
		Quote  float64 `json:"quote"`
		Epoch  int64   `json:"epoch"`
	} `json:"tick"`

	Proposal *struct {
		ID       string  `json:"id"`
		AskPrice float64 `json:"ask_price"`
		Payout   float64 `json:"payout"`
	} `json:"proposal"`

	Buy *struct {
		ContractID    int64   `json:"contract_id"`
		BuyPrice      float64 `json:"buy_price"`
		TransactionID int64   `json:"transaction_id"`
	} `json:"buy"`

	ProposalOpenContract *struct {
		ContractID int64   `json:"contract_id"`
		IsSold     int     `json:"is_sold"`
		Profit     float64 `json:"profit"`
		Status     string  `json:"status"`
	} `json:"proposal_open_contract"`

	Subscription *struct {
		ID string `json:"id"`
	} `json:"subscription"`
}

// APIError is an error object returned by the venue in place of a response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deriv API error %s: %s", e.Code, e.Message)
}

// Unwrap maps well-known venue error codes onto ports errors.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "InvalidToken", "AuthorizationRequired", "InvalidAppID":
		return ports.ErrAuthenticationFailed
	case "RateLimit":
		return ports.ErrRateLimited
	case "InsufficientBalance":
		return ports.ErrInsufficientFunds
	case "InputValidationFailed":
		return ports.ErrInvalidRequest
	default:
		return nil
	}
}
