// Package jwt manages access-token issuance and verification. Every minted
// token embeds a unique JTI and the account's token version so that package
// revocation can invalidate it individually or in bulk.
package jwt
