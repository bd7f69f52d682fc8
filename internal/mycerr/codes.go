package mycerr

// Native error codes shared by every Mycelium component. Each carries a
// short human message and a flag marking whether the underlying cause is
// internal (never safe to show a caller) or external (safe to surface).
const (
	// MYC00001: Database Client Unavailable error. Could not fetch client.
	MYC00001 = "MYC00001"
	// MYC00002: User already registered in Mycelium. Returned when a
	// manager account tries to register a new account whose owner exists.
	MYC00002 = "MYC00002"
	// MYC00003: Account already registered in Mycelium. Returned when a
	// manager account tries to register an account that already exists.
	MYC00003 = "MYC00003"
	// MYC00004: Could not check profile verbose status. Dispatched when a
	// use-case could not access the account verbose status during
	// validation.
	MYC00004 = "MYC00004"
	// MYC00005: Action restricted to active users.
	MYC00005 = "MYC00005"
	// MYC00006: Action restricted to manager users.
	MYC00006 = "MYC00006"
	// MYC00007: Updating action failed. Dispatched when an update was
	// preceded by an unknown error.
	MYC00007 = "MYC00007"
	// MYC00008: Token not found or expired.
	MYC00008 = "MYC00008"
	// MYC00009: User not found.
	MYC00009 = "MYC00009"
	// MYC00010: Unable to notify user, though the action itself succeeded.
	MYC00010 = "MYC00010"
	// MYC00011: New password is the same as the old one.
	MYC00011 = "MYC00011"
	// MYC00012: Unable to validate password.
	MYC00012 = "MYC00012"
	// MYC00013: Unauthorized action.
	MYC00013 = "MYC00013"
	// MYC00014: Tenant name already exists.
	MYC00014 = "MYC00014"
	// MYC00015: Tenant owner already exists.
	MYC00015 = "MYC00015"
	// MYC00016: Tenant owner not found.
	MYC00016 = "MYC00016"
	// MYC00017: Guest already exists.
	MYC00017 = "MYC00017"
	// MYC00018: Invalid user operation.
	MYC00018 = "MYC00018"
	// MYC00019: Insufficient privileges.
	MYC00019 = "MYC00019"
	// MYC00020: Possible security issue. The informed scope is not valid.
	MYC00020 = "MYC00020"
	// MYC00021: TOTP already enabled.
	MYC00021 = "MYC00021"
	// MYC00022: TOTP disabled.
	MYC00022 = "MYC00022"
	// MYC00023: TOTP token invalid.
	MYC00023 = "MYC00023"
)

// nativeMessages maps every native code to its human-readable message, used
// by Native to build a ready-to-use *Error without repeating message text
// at call sites scattered across the use-case layer.
var nativeMessages = map[string]string{
	MYC00001: "Database Client Unavailable error",
	MYC00002: "User already registered in Mycelium",
	MYC00003: "Account already registered in Mycelium",
	MYC00004: "Could not check profile verbose status",
	MYC00005: "Action restricted to active users",
	MYC00006: "Action restricted to manager users",
	MYC00007: "Updating action failed",
	MYC00008: "Token not found or expired",
	MYC00009: "User not found",
	MYC00010: "Unable to notify user",
	MYC00011: "New Password is the same as the old one",
	MYC00012: "Unable to validate password",
	MYC00013: "Unauthorized action",
	MYC00014: "Tenant name already exists",
	MYC00015: "Tenant owner already exists",
	MYC00016: "Tenant owner not found",
	MYC00017: "Guest already exists",
	MYC00018: "Invalid user operation",
	MYC00019: "Insufficient privileges",
	MYC00020: "Possible security issue",
	MYC00021: "Totp Already Enabled",
	MYC00022: "Totp Disabled",
	MYC00023: "Totp Token invalid",
}

// nativeInternal marks codes whose cause must never reach a caller verbatim.
// Codes absent from this set are external-safe.
var nativeInternal = map[string]bool{
	MYC00001: true,
	MYC00005: true,
	MYC00006: true,
	MYC00007: true,
}

// nativeKind pins each native code to the Kind its originating use-case
// should raise, mirroring how the original implementation paired an
// error-code enum with a concrete error constructor at each call site.
var nativeKind = map[string]Kind{
	MYC00001: KindInvalidRepository,
	MYC00002: KindCreation,
	MYC00003: KindCreation,
	MYC00004: KindFetching,
	MYC00005: KindUseCase,
	MYC00006: KindUseCase,
	MYC00007: KindUpdating,
	MYC00008: KindFetching,
	MYC00009: KindFetching,
	MYC00010: KindExecution,
	MYC00011: KindInvalidArgument,
	MYC00012: KindInvalidArgument,
	MYC00013: KindUseCase,
	MYC00014: KindCreation,
	MYC00015: KindCreation,
	MYC00016: KindFetching,
	MYC00017: KindCreation,
	MYC00018: KindInvalidArgument,
	MYC00019: KindExecution,
	MYC00020: KindInvalidArgument,
	MYC00021: KindUseCase,
	MYC00022: KindUseCase,
	MYC00023: KindInvalidArgument,
}

// Native builds the canonical *Error for a native code: the registered
// message, the registered Kind, Expected set to the inverse of the code's
// internal flag, and the code itself attached via WithCode. Callers may
// still layer WithPrevious/WithExpected on the result.
func Native(code string) *Error {
	msg, ok := nativeMessages[code]
	if !ok {
		return UndefinedErr("unknown native error code: " + code).WithCode(code)
	}
	kind := nativeKind[code]
	expected := !nativeInternal[code]
	return newError(kind, msg, expected).WithCode(code)
}

// IsInternal reports whether code marks an internal (never caller-visible)
// failure cause.
func IsInternal(code string) bool {
	return nativeInternal[code]
}
