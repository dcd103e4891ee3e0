package domain

// RegistrationID identifies an install of an account. Values never exceed
// MaxRegistrationID.
type RegistrationID uint16

// MaxRegistrationID is the mask applied to freshly drawn registration ids.
const MaxRegistrationID RegistrationID = 0x3FFF

// MaxKeyID is the largest signed or one-time pre-key id.
const MaxKeyID = 1<<32 - 1

// SignedPreKey is a medium-term key pair whose wire-form public key is
// signed by the identity key.
type SignedPreKey struct {
	KeyID     uint32  `json:"key_id"`
	KeyPair   KeyPair `json:"key_pair"`
	Signature []byte  `json:"signature"`
}

// PreKey is a one-time pre-key. It carries no signature.
type PreKey struct {
	KeyID   uint32  `json:"key_id"`
	KeyPair KeyPair `json:"key_pair"`
}

// PreKeyPublic is the public half of a one-time pre-key as published in a bundle.
type PreKeyPublic struct {
	KeyID     uint32 `json:"key_id"`
	PublicKey []byte `json:"public_key"`
}

// Account is what provisioning produces and the identity store keeps.
type Account struct {
	IdentityKeyPair IdentityKeyPair `json:"identity_key_pair"`
	RegistrationID  RegistrationID  `json:"registration_id"`
}

// PreKeyBundle is the public material a peer needs to start a session.
// Byte slices are base64 in JSON.
type PreKeyBundle struct {
	RegistrationID        RegistrationID `json:"registration_id"`
	IdentityKey           []byte         `json:"identity_key"`
	SignedPreKeyID        uint32         `json:"signed_pre_key_id"`
	SignedPreKey          []byte         `json:"signed_pre_key"`
	SignedPreKeySignature []byte         `json:"signed_pre_key_signature"`
	PreKeys               []PreKeyPublic `json:"pre_keys,omitempty"`
}

// PreKeyMessage carries the initiator's X3DH parameters to the responder.
type PreKeyMessage struct {
	RegistrationID       RegistrationID `json:"registration_id"`
	InitiatorIdentityKey []byte         `json:"initiator_identity_key"`
	EphemeralKey         []byte         `json:"ephemeral_key"`
	SignedPreKeyID       uint32         `json:"signed_pre_key_id"`
	PreKeyID             *uint32        `json:"pre_key_id,omitempty"`
}
