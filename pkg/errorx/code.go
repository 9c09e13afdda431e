package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	Internal         Code = 100007
	Unavailable      Code = 100008

	// Lifecycle codes
	EmptyURI           Code = 200001
	QuantityOutOfRange Code = 200002
	NotConnected       Code = 200003
	NotOwner           Code = 200004
	Busy               Code = 200005
	NotIdle            Code = 200006
	AdminDisabled      Code = 200007

	// Chain codes
	NotEnoughBalance Code = 300001
	SubmitTx         Code = 300002
	Simulation       Code = 300003
)
