package scorm12

import "github.com/aretw0/scorm/pkg/domain"

var codes = map[domain.ErrorKey]int{
	domain.KeyGeneral:                  101,
	domain.KeyInitializationFailed:     101,
	domain.KeyInitialized:              101,
	domain.KeyTerminated:               101,
	domain.KeyTerminationFailure:       101,
	domain.KeyTerminationBeforeInit:    301,
	domain.KeyMultipleTermination:      101,
	domain.KeyRetrieveBeforeInit:       301,
	domain.KeyRetrieveAfterTerm:        101,
	domain.KeyStoreBeforeInit:          301,
	domain.KeyStoreAfterTerm:           101,
	domain.KeyCommitBeforeInit:         301,
	domain.KeyCommitAfterTerm:          101,
	domain.KeyArgumentError:            201,
	domain.KeyChildrenError:            202,
	domain.KeyCountError:               203,
	domain.KeyGeneralGetFailure:        101,
	domain.KeyGeneralSetFailure:        101,
	domain.KeyGeneralCommitFailure:     101,
	domain.KeyUndefinedDataModel:       201,
	domain.KeyUnimplementedElement:     401,
	domain.KeyValueNotInitialized:      301,
	domain.KeyInvalidSetValue:          402,
	domain.KeyReadOnlyElement:          403,
	domain.KeyWriteOnlyElement:         404,
	domain.KeyTypeMismatch:             405,
	domain.KeyValueOutOfRange:          407,
	domain.KeyDependencyNotEstablished: 408,
}

var messages = map[int]domain.ErrorMessage{
	0: {
		Short:  "No error",
		Detail: "No error occurred, the previous API call was successful.",
	},
	101: {
		Short:  "General Exception",
		Detail: "No specific error code exists to describe the error. Use LMSGetDiagnostic for more information.",
	},
	201: {
		Short:  "Invalid argument error",
		Detail: "Indicates that an argument represents an invalid data model element or is otherwise incorrect.",
	},
	202: {
		Short:  "Element cannot have children",
		Detail: `Indicates that LMSGetValue was called with a data model element name that ends in "_children" for a data model element that does not support the "_children" suffix.`,
	},
	203: {
		Short:  "Element not an array - cannot have count",
		Detail: `Indicates that LMSGetValue was called with a data model element name that ends in "_count" for a data model element that does not support the "_count" suffix.`,
	},
	301: {
		Short:  "Not initialized",
		Detail: "Indicates that an API call was made before the call to LMSInitialize.",
	},
	401: {
		Short:  "Not implemented error",
		Detail: "The value being passed to LMSGetValue or LMSSetValue is a valid data model element that this LMS does not implement.",
	},
	402: {
		Short:  "Invalid set value, element is a keyword",
		Detail: `Indicates that LMSSetValue was called on a data model element that represents a keyword (name ends in "_children" or "_count").`,
	},
	403: {
		Short:  "Element is read only",
		Detail: "LMSSetValue was called with a data model element that can only be read.",
	},
	404: {
		Short:  "Element is write only",
		Detail: "LMSGetValue was called on a data model element that can only be written to.",
	},
	405: {
		Short:  "Incorrect Data Type",
		Detail: "LMSSetValue was called with a value that is not consistent with the data format of the supplied data model element.",
	},
	407: {
		Short:  "Element Value Out Of Range",
		Detail: "The numeric value supplied to a LMSSetValue call is outside of the numeric range allowed for the supplied data model element.",
	},
	408: {
		Short:  "Data Model Dependency Not Established",
		Detail: "Some data model elements cannot be set until another data model element was set. This error condition indicates that the prerequisite element was not set before the dependent element.",
	},
}

// Errors returns the SCORM 1.2 error table. AICC shares it.
func Errors() *domain.ErrorTable {
	return domain.NewErrorTable(codes, messages)
}
