// Package routepath stores canonical HTTP paths for the intake web surface.
package routepath

import "net/url"

const (
	Root                   = "/"
	Health                 = "/healthz"
	StaticPrefix           = "/static/"
	PatientPrefix          = "/patient/"
	PatientRegisterPattern = PatientPrefix + "{patientID}/register"
)

// PatientRegister returns the registration landing path for a patient.
func PatientRegister(patientID string) string {
	return PatientPrefix + url.PathEscape(patientID) + "/register"
}

// Static returns the path of an embedded static asset.
func Static(name string) string {
	return StaticPrefix + name
}
