package errcode

import (
	"fmt"
	"strings"
)

// Status is an entry of the user-facing status table. Several codes share a
// status on purpose: the SDK reports far more distinct results than a user
// can act on.
type Status struct {
	Code int
	Name string
}

// User-facing statuses.
var (
	StatusNoError             = Status{0, "NO_ERROR"}
	StatusInternalError       = Status{1, "INTERNAL_ERROR"}
	StatusProtocolError       = Status{2, "COMM_PROTOCOL_ERROR"}
	StatusConnectFailed       = Status{3, "DEVICE_CONNECT_FAILED"}
	StatusInvalidParameter    = Status{5, "INVALID_PARAMETER"}
	StatusNoMemory            = Status{6, "PC_NO_MEMORY"}
	StatusUnknown             = Status{9, "MSO_UNKNOWN_STATUS"}
	StatusNotImplemented      = Status{18, "COMMAND_NOT_IMPLEMENTED"}
	StatusTimeout             = Status{19, "TIMEOUT"}
	StatusAborted             = Status{26, "ABORTED"}
	StatusCommReturnError     = Status{37, "COMM_RETURN_ERROR_RANGE"}
	StatusUSBNotConnected     = Status{42, "USB_NOT_CONNECTED"}
	StatusFakeFinger          = Status{46, "FAKE_FINGER_DETECTED"}
	StatusNoParameter         = Status{49, "NO_PARAMETER_INITIALIZED"}
	StatusDeviceBlocked       = Status{57, "DEVICE_BLOCKED"}
	StatusQualityBelowLimit   = Status{66, "QUALITY_NOT_MEETING_THRESHOLD"}
	StatusFeatureNotAvailable = Status{72, "FEATURE_NOT_AVAILABLE_ON_DEVICE"}
)

var statusByCode = map[Code]Status{
	InternalError: StatusInternalError,
	Internal:      StatusInternalError,
	Exception:     StatusInternalError,

	NoDevicesFound:           StatusUSBNotConnected,
	DeviceNotFound:           StatusUSBNotConnected,
	USBFullSpeedNotSupported: StatusUSBNotConnected,

	Unknown:              StatusUnknown,
	Generic:              StatusUnknown,
	SpecificDLLNotLoaded: StatusUnknown,

	NoError: StatusNoError,

	USBDriver:            StatusConnectFailed,
	DeviceNotResponding:  StatusTimeout,
	AcquisitionTimeout:   StatusTimeout,
	ScannerCommunication: StatusProtocolError,
	USBThread:            StatusProtocolError,
	DeviceLocked:         StatusDeviceBlocked,

	ScannerNotConfigured: StatusNoParameter,
	CurrentDevNotSet:     StatusNoParameter,

	MethodNotSupported:     StatusNotImplemented,
	ObjectTypeNotSupported: StatusFeatureNotAvailable,
	ScanAreaNotSupported:   StatusFeatureNotAvailable,
	FeatureNotSupported:    StatusFeatureNotAvailable,
	UnavailableOption:      StatusFeatureNotAvailable,

	Parameter:          StatusInvalidParameter,
	OutsideAcquisition: StatusInvalidParameter,
	MemoryAllocation:   StatusNoMemory,

	NoFingerprint: StatusQualityBelowLimit,

	AcquisitionThread:  StatusCommReturnError,
	AcquisitionStarted: StatusAborted,
	FakeFingerDetected: StatusFakeFinger,
}

// StatusFor returns the user-facing status for c; codes missing from the
// table fall back to StatusUnknown.
func StatusFor(c Code) Status {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return StatusUnknown
}

// Locale selects the language of status descriptions.
type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"
)

var descriptions = map[Locale]map[Status]string{
	English: {
		StatusNoError:             "No error",
		StatusInternalError:       "The biometric device encountered an internal error",
		StatusProtocolError:       "Communication protocol error",
		StatusConnectFailed:       "Unable to connect to the biometric device",
		StatusInvalidParameter:    "Invalid parameter",
		StatusNoMemory:            "Not enough memory on the PC",
		StatusUnknown:             "The device returned an unknown status",
		StatusNotImplemented:      "Command not implemented in this version",
		StatusTimeout:             "No response within the configured time",
		StatusAborted:             "The command was aborted",
		StatusCommReturnError:     "The communication callback returned an error",
		StatusUSBNotConnected:     "The USB device is not connected",
		StatusFakeFinger:          "Fake finger detected",
		StatusNoParameter:         "No parameter initialized",
		StatusDeviceBlocked:       "The device is locked",
		StatusQualityBelowLimit:   "The device could not capture a fingerprint with the required quality",
		StatusFeatureNotAvailable: "The requested feature is not available on the connected device",
	},
	Spanish: {
		StatusNoError:             "No hay error",
		StatusInternalError:       "El dispositivo biometrico encontro un error interno",
		StatusProtocolError:       "Error de protocolo de comunicacion",
		StatusConnectFailed:       "No se puede conectar el dispositivo biometrico",
		StatusInvalidParameter:    "Parametro invalido",
		StatusNoMemory:            "No hay suficiente memoria en la PC",
		StatusUnknown:             "El MSO devolvio un estatus de error desconocido",
		StatusNotImplemented:      "Comando no implementado en esta version",
		StatusTimeout:             "No hay respuesta tras el tiempo definido",
		StatusAborted:             "El comando ha sido abortado",
		StatusCommReturnError:     "La funcion de retorno de comunicacion regreso un error entre -10000 y -10499",
		StatusUSBNotConnected:     "El dispositivo USB no esta conectado",
		StatusFakeFinger:          "Dedo Falso Detectado",
		StatusNoParameter:         "Ningun parametro ha sido inicializado",
		StatusDeviceBlocked:       "El dispositivo esta bloqueado",
		StatusQualityBelowLimit:   "El MorphoSmart no logro capturar la huella con una calidad mayor o igual al umbral especificado",
		StatusFeatureNotAvailable: "Una funcionalidad ha sido solicitada, pero no esta disponible en el dispositivo conectado",
	},
}

// ParseLocale returns the locale named by s, or English when s is not
// recognized.
func ParseLocale(s string) Locale {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptions[l]; ok {
		return l
	}
	return English
}

// Localizer formats user messages in one locale.
type Localizer struct {
	locale Locale
}

func NewLocalizer(l Locale) Localizer {
	if _, ok := descriptions[l]; !ok {
		l = English
	}
	return Localizer{locale: l}
}

// Describe returns the localized description of a status.
func (l Localizer) Describe(s Status) string {
	table := descriptions[l.locale]
	if table == nil {
		table = descriptions[English]
	}
	if d, ok := table[s]; ok {
		return d
	}
	return table[StatusUnknown]
}

// UserMessage renders "<description> (<NAME>), error code: <code>". The
// numeric code is the domain code, not the status code.
func (l Localizer) UserMessage(c Code) string {
	return fmt.Sprintf("%s (%s), error code: %d", l.Describe(StatusFor(c)), c.Name(), int(c))
}

// UserMessage formats c with the English descriptions.
func UserMessage(c Code) string {
	return NewLocalizer(English).UserMessage(c)
}
