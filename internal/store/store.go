// Package store contient les accès aux documents persistés : produits,
// promos et commandes dans ScyllaDB, paniers dans Redis. Les services ne
// voient que des interfaces ; ces implémentations sont branchées au démarrage.
package store

import "errors"

// ErrNotFound est renvoyée quand le document référencé n'existe pas.
// Les services la traduisent dans la taxonomie d'erreurs métier.
var ErrNotFound = errors.New("document introuvable")
