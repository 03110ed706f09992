package scorm2004

import "github.com/aretw0/scorm/pkg/domain"

var codes = map[domain.ErrorKey]int{
	domain.KeyGeneral:                  101,
	domain.KeyInitializationFailed:     102,
	domain.KeyInitialized:              103,
	domain.KeyTerminated:               104,
	domain.KeyTerminationFailure:       111,
	domain.KeyTerminationBeforeInit:    112,
	domain.KeyMultipleTermination:      113,
	domain.KeyRetrieveBeforeInit:       122,
	domain.KeyRetrieveAfterTerm:        123,
	domain.KeyStoreBeforeInit:          132,
	domain.KeyStoreAfterTerm:           133,
	domain.KeyCommitBeforeInit:         142,
	domain.KeyCommitAfterTerm:          143,
	domain.KeyArgumentError:            201,
	domain.KeyChildrenError:            401,
	domain.KeyCountError:               401,
	domain.KeyGeneralGetFailure:        301,
	domain.KeyGeneralSetFailure:        351,
	domain.KeyGeneralCommitFailure:     391,
	domain.KeyUndefinedDataModel:       401,
	domain.KeyUnimplementedElement:     402,
	domain.KeyValueNotInitialized:      403,
	domain.KeyInvalidSetValue:          404,
	domain.KeyReadOnlyElement:          404,
	domain.KeyWriteOnlyElement:         405,
	domain.KeyTypeMismatch:             406,
	domain.KeyValueOutOfRange:          407,
	domain.KeyDependencyNotEstablished: 408,
}

var messages = map[int]domain.ErrorMessage{
	0: {
		Short:  "No Error",
		Detail: "No error occurred, the previous API call was successful.",
	},
	101: {
		Short:  "General Exception",
		Detail: "No specific error code exists to describe the error. Use GetDiagnostic for more information.",
	},
	102: {
		Short:  "General Initialization Failure",
		Detail: "Call to Initialize failed for an unknown reason.",
	},
	103: {
		Short:  "Already Initialized",
		Detail: "Call to Initialize failed because Initialize was already called.",
	},
	104: {
		Short:  "Content Instance Terminated",
		Detail: "Call to Initialize failed because Terminate was already called.",
	},
	111: {
		Short:  "General Termination Failure",
		Detail: "Call to Terminate failed for an unknown reason.",
	},
	112: {
		Short:  "Termination Before Initialization",
		Detail: "Call to Terminate failed because it was made before the call to Initialize.",
	},
	113: {
		Short:  "Termination After Termination",
		Detail: "Call to Terminate failed because Terminate was already called.",
	},
	122: {
		Short:  "Retrieve Data Before Initialization",
		Detail: "Call to GetValue failed because it was made before the call to Initialize.",
	},
	123: {
		Short:  "Retrieve Data After Termination",
		Detail: "Call to GetValue failed because it was made after the call to Terminate.",
	},
	132: {
		Short:  "Store Data Before Initialization",
		Detail: "Call to SetValue failed because it was made before the call to Initialize.",
	},
	133: {
		Short:  "Store Data After Termination",
		Detail: "Call to SetValue failed because it was made after the call to Terminate.",
	},
	142: {
		Short:  "Commit Before Initialization",
		Detail: "Call to Commit failed because it was made before the call to Initialize.",
	},
	143: {
		Short:  "Commit After Termination",
		Detail: "Call to Commit failed because it was made after the call to Terminate.",
	},
	201: {
		Short:  "General Argument Error",
		Detail: "An invalid argument was passed to an API method (usually indicates that Initialize, Commit or Terminate did not receive the expected empty string argument).",
	},
	301: {
		Short:  "General Get Failure",
		Detail: "Indicates a failed GetValue call where no other specific error code is applicable. Use GetDiagnostic for more information.",
	},
	351: {
		Short:  "General Set Failure",
		Detail: "Indicates a failed SetValue call where no other specific error code is applicable. Use GetDiagnostic for more information.",
	},
	391: {
		Short:  "General Commit Failure",
		Detail: "Indicates a failed Commit call where no other specific error code is applicable. Use GetDiagnostic for more information.",
	},
	401: {
		Short:  "Undefined Data Model Element",
		Detail: "The data model element name passed to GetValue or SetValue is not a valid SCORM data model element.",
	},
	402: {
		Short:  "Unimplemented Data Model Element",
		Detail: "The data model element indicated in a call to GetValue or SetValue is valid, but was not implemented by this LMS.",
	},
	403: {
		Short:  "Data Model Element Value Not Initialized",
		Detail: "Attempt to read a data model element that has not been initialized by the LMS or through a SetValue call. This error condition is often reached during normal execution of a SCO.",
	},
	404: {
		Short:  "Data Model Element Is Read Only",
		Detail: "SetValue was called with a data model element that can only be read.",
	},
	405: {
		Short:  "Data Model Element Is Write Only",
		Detail: "GetValue was called on a data model element that can only be written to.",
	},
	406: {
		Short:  "Data Model Element Type Mismatch",
		Detail: "SetValue was called with a value that is not consistent with the data format of the supplied data model element.",
	},
	407: {
		Short:  "Data Model Element Value Out Of Range",
		Detail: "The numeric value supplied to a SetValue call is outside of the numeric range allowed for the supplied data model element.",
	},
	408: {
		Short:  "Data Model Dependency Not Established",
		Detail: "Some data model elements cannot be set until another data model element was set. This error condition indicates that the prerequisite element was not set before the dependent element.",
	},
}

// Errors returns the SCORM 2004 error table.
func Errors() *domain.ErrorTable {
	return domain.NewErrorTable(codes, messages)
}
