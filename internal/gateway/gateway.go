// Package gateway isole la passerelle de paiement derrière une interface
// construite explicitement au démarrage et injectée dans les services,
// pour que les tests puissent y substituer une fausse passerelle.
package gateway

import "context"

// LineItem est une ligne facturable côté passerelle, en centimes.
// Le montant peut être négatif (ligne de réduction) pour que le total côté
// passerelle se réconcilie exactement avec le total stocké en commande.
type LineItem struct {
	Name        string
	Description string
	Images      []string
	UnitAmount  int64
	Quantity    int64
}

// SessionRequest décrit une session de paiement hébergée à créer.
type SessionRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// Session est l'état d'une session de paiement côté passerelle.
type Session struct {
	ID              string
	URL             string
	Paid            bool
	PaymentIntentID string
}

// RefundRequest décrit un remboursement à émettre, en centimes.
type RefundRequest struct {
	PaymentIntentID string
	Amount          int64
	Metadata        map[string]string
}

// RefundResult est la réponse de la passerelle à une demande de
// remboursement. Succeeded à false signifie "accepté mais pas encore réglé".
type RefundResult struct {
	ID        string
	Succeeded bool
}

// Gateway est le contrat minimal dont le cœur a besoin. La politique de
// timeout/retry appartient au transport de l'implémentation : toute panne
// remonte immédiatement à l'appelant.
type Gateway interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	CreateRefund(ctx context.Context, req *RefundRequest) (*RefundResult, error)
}
