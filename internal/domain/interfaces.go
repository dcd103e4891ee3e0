package domain

import "context"

// Curve is the X25519/XEdDSA primitive set every higher layer builds on.
// Implementations hold no secret state between calls.
type Curve interface {
	GenerateKeyPair() (KeyPair, error)
	DerivePublicKey(privateKey []byte) ([]byte, error)
	SharedSecret(peerPublicKey, privateKey []byte) ([]byte, error)
	Sign(privateKey, message []byte) ([]byte, error)
	Verify(publicKey, message, signature []byte, mode VerifyMode) (bool, error)
}

// IdentityStore persists the provisioned account.
type IdentityStore interface {
	SaveAccount(passphrase string, account Account) error
	LoadAccount(passphrase string) (Account, error)
}

// PreKeyStore manages signed and one-time pre-keys.
type PreKeyStore interface {
	// Signed pre-keys
	SaveSignedPreKey(spk SignedPreKey) error
	LoadSignedPreKey(id uint32) (SignedPreKey, bool, error)
	SetCurrentSignedPreKeyID(id uint32) error
	CurrentSignedPreKeyID() (uint32, bool, error)

	// One-time pre-keys
	SavePreKeys(keys []PreKey) error
	LoadPreKey(id uint32) (PreKey, bool, error)
	RemovePreKey(id uint32) error
	ListPreKeys() ([]PreKey, error)
}

// IdentityService creates and reads the account identity.
type IdentityService interface {
	GenerateIdentityKeyPair() (IdentityKeyPair, error)
	GenerateRegistrationID() (RegistrationID, error)
	Provision(passphrase string) (Account, string /*fingerprint*/, error)
	LoadAccount(passphrase string) (Account, error)
	Fingerprint(passphrase string) (string, error)
}

// PreKeyService generates pre-keys and assembles the public bundle.
type PreKeyService interface {
	GenerateSignedPreKey(identity IdentityKeyPair, signedKeyID int) (SignedPreKey, error)
	GeneratePreKey(keyID int) (PreKey, error)
	GeneratePreKeys(ctx context.Context, start, count int) ([]PreKey, error)
	GenerateAndStore(ctx context.Context, passphrase string, signedKeyID, start, count int) (SignedPreKey, []PreKey, error)
	LoadBundle(passphrase string) (PreKeyBundle, error)
}
