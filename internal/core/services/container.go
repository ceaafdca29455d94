package services

import (
	"github.com/centavohq/centavo-books/internal/core/ports"
)

// ServicesContainer wires the full fetch → decrypt → derive stack for
// consumers that want the default composition.
type ServicesContainer struct {
	Decryption ports.RecordDecryptionSvc
	Derivation ports.DerivationSvc
	Period     ports.PeriodSvc
	Books      ports.BooksSvc
}

// NewServicesContainer builds the default service graph on top of the given
// data provider and decryption capability.
func NewServicesContainer(provider ports.AccountingDataProvider, dec ports.FieldDecrypter, locale string, periodOpts ...PeriodServiceOption) *ServicesContainer {
	decryption := NewDecryptionService()
	derivation := NewDerivationService()
	period := NewPeriodService(provider, decryption, periodOpts...)
	books := NewBooksService(period, derivation, WithLocale(locale), WithDecrypter(dec))
	return &ServicesContainer{
		Decryption: decryption,
		Derivation: derivation,
		Period:     period,
		Books:      books,
	}
}
