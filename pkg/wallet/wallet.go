// Package wallet models the client-side wallet file: the canonical JSON
// shape persisted alongside party two's key material. Actual file I/O is
// left to the caller; this package only defines the data model and the pure
// operations (address derivation, rotation bookkeeping, escrow backup) that
// keep it consistent.
package wallet

import (
	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/escrow"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/chaincode"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
)

// PrivateShare is party two's half of the split key, keyed by the server
// session that produced it.
type PrivateShare struct {
	ID        string                  `json:"id"`
	MasterKey *ecdsa2p.MasterKeyParty2 `json:"master_key"`
}

// DerivedAddress is one entry of the wallet's address-derivation map: the
// BIP32-style position it was derived at and the resulting child key.
type DerivedAddress struct {
	Pos            uint32                   `json:"pos"`
	MasterKeyChild *ecdsa2p.MasterKeyParty2 `json:"master_key_child"`
}

// Wallet is the canonical persisted client wallet file, per spec.md §6:
// {id, network, private_share, last_derived_pos, addresses_derivation_map}.
type Wallet struct {
	ID                     string                     `json:"id"`
	Network                string                     `json:"network"`
	PrivateShare           PrivateShare               `json:"private_share"`
	LastDerivedPos         uint32                    `json:"last_derived_pos"`
	AddressesDerivationMap map[string]DerivedAddress `json:"addresses_derivation_map"`
}

// New builds a fresh wallet around a completed keygen's session id and
// master key. The address-derivation map starts empty.
func New(id, network, sessionID string, mk *ecdsa2p.MasterKeyParty2) *Wallet {
	return &Wallet{
		ID:                     id,
		Network:                network,
		PrivateShare:           PrivateShare{ID: sessionID, MasterKey: mk},
		AddressesDerivationMap: make(map[string]DerivedAddress),
	}
}

// DeriveAddress computes the child key at pos (a single non-hardened BIP32
// index) and records it against addr, per spec.md §4.5/§6. pos becomes the
// wallet's LastDerivedPos if it advances it.
func (w *Wallet) DeriveAddress(addr string, pos uint32) (*ecdsa2p.MasterKeyParty2, error) {
	const op = "wallet.DeriveAddress"
	mk := w.PrivateShare.MasterKey
	child, err := chaincode.DerivePathParty2(mk.X2, mk.Q, mk.ChainCode, []uint32{pos})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "derive child key", err)
	}
	childMK := &ecdsa2p.MasterKeyParty2{
		X2:          child.X2,
		Q:           child.Q,
		ChainCode:   child.ChainCode,
		PaillierPub: mk.PaillierPub,
		CKey:        mk.CKey,
	}
	w.AddressesDerivationMap[addr] = DerivedAddress{Pos: pos, MasterKeyChild: childMK}
	if pos > w.LastDerivedPos {
		w.LastDerivedPos = pos
	}
	return childMK, nil
}

// ApplyRotation replaces the wallet's private share with a rotated master
// key and re-derives every address already in the derivation map, each at
// its recorded position (all within [0, LastDerivedPos]). Positions that
// have no entry in the map are not derived.
func (w *Wallet) ApplyRotation(newSessionID string, rotated *ecdsa2p.MasterKeyParty2) error {
	const op = "wallet.ApplyRotation"
	w.PrivateShare = PrivateShare{ID: newSessionID, MasterKey: rotated}

	positions := make(map[string]uint32, len(w.AddressesDerivationMap))
	for addr, entry := range w.AddressesDerivationMap {
		positions[addr] = entry.Pos
	}
	for addr, pos := range positions {
		if _, err := w.DeriveAddress(addr, pos); err != nil {
			return apperr.Wrap(apperr.Internal, op, "re-derive address "+addr, err)
		}
	}
	return nil
}

// Backup produces a verifiable escrow backup of the wallet's current
// private share x2 under escrow public key y, per spec.md §4.7.
func (w *Wallet) Backup(y *curvemath.Point) (*escrow.Backup, error) {
	return escrow.Backup(w.PrivateShare.MasterKey.X2, y)
}
