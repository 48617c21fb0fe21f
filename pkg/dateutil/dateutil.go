package dateutil

import (
	"errors"
	"time"
)

// ErrBirthAfterDate is returned when an age is requested at a date before birth.
var ErrBirthAfterDate = errors.New("date cannot be before birth date")

// Age calculates the completed years of age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeChecked is Age with a guard against dates before birth.
func AgeChecked(birthDate, atDate time.Time) (int, error) {
	if birthDate.After(atDate) {
		return 0, ErrBirthAfterDate
	}
	return Age(birthDate, atDate), nil
}

// MonthAge calculates the completed months of age at a given date.
// Used for juvenile entries where the year age is zero.
func MonthAge(birthDate, atDate time.Time) (int, error) {
	if birthDate.After(atDate) {
		return 0, ErrBirthAfterDate
	}
	months := (atDate.Year()-birthDate.Year())*12 + int(atDate.Month()) - int(birthDate.Month())
	if atDate.Day() < birthDate.Day() {
		months--
	}
	return months, nil
}
