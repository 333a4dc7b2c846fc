package sessionstore

// Role names one of the named session-state blobs listed in spec.md §3's
// state table. Each protocol round writes exactly the roles the table
// assigns to it and reads only roles written by an earlier round.
//
// Role values are alphanumeric (no separators) so they compose directly
// into BuildKey's alphanumeric-only composite key.
type Role string

const (
	// ECDSA keygen.
	RoleKeyGenFirstMsg  Role = "kgfirstmsg"
	RoleCommWitness     Role = "commwitness"
	RoleEcKeyPair       Role = "eckeypair"
	RolePaillierKeyPair Role = "paillierkeypair"
	RoleParty1Private   Role = "party1private"
	RolePDLDecommit     Role = "pdldecommit"
	RolePDLFirstMessage Role = "pdlfirstmessage"

	// Chain-code exchange.
	RoleCCCommWitness Role = "cccommwitness"
	RoleCCEcKeyPair   Role = "cceckeypair"
	RoleChainCode     Role = "chaincode"

	// Finalized key material.
	RoleMasterKey1 Role = "masterkey1"

	// ECDSA signing.
	RoleEphEcKeyPair Role = "epheckeypair"
	RoleSignState    Role = "signstate"

	// Key rotation.
	RoleRotationCoinCommit Role = "rotationcoincommit"
	RoleRotationState      Role = "rotationstate"

	// EdDSA / Schnorr parallels.
	RoleEdDSAKeyGenFirstMsg Role = "eddsakgfirstmsg"
	RoleEdDSACommWitness    Role = "eddsacommwitness"
	RoleEdDSAMasterKey1     Role = "eddsamasterkey1"
	RoleEdDSAEphKeyPair     Role = "eddsaephkeypair"

	RoleSchnorrKeyGenFirstMsg Role = "schnorrkgfirstmsg"
	RoleSchnorrCommWitness    Role = "schnorrcommwitness"
	RoleSchnorrMasterKey1     Role = "schnorrmasterkey1"
	RoleSchnorrEphKeyPair     Role = "schnorrephkeypair"
)
