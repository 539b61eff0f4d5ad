/*
Registry contract implements username-based stealth payments.

A username is a human-readable routing handle: 3 to 20 characters of
lowercase letters, digits and underscores, owned by exactly one address at a
time, with the owner holding at most one active username. Registration
stores a commitment of the owner's off-chain stealth meta-address and pulls
the registration fee in GAS. The owner-to-username and username-to-owner
directions of the index are always mutated in the same transaction.

Payments are addressed to a username, never to an address: the contract
takes the tokens into its own escrow at send time and releases them only to
whoever owns the username when the claim arrives. Ownership is deliberately
resolved at claim time, so a payment sent while the name belonged to one
address is claimable by the address the name was transferred to in the
meantime. The claimed flag of a payment is terminal and is stored before the
escrow transfer leaves the contract.

Contract notifications

UsernameRegistered notification. This notification is produced when a
username is registered or re-registered after deregistration.

  UsernameRegistered:
    - name: username
      type: String
    - name: owner
      type: Hash160

UsernameTransferred notification. This notification is produced when an
active username changes hands.

  UsernameTransferred:
    - name: username
      type: String
    - name: from
      type: Hash160
    - name: to
      type: Hash160

UsernameDeregistered notification. This notification is produced when a
username is marked inactive by its owner.

  UsernameDeregistered:
    - name: username
      type: String
    - name: owner
      type: Hash160

PaymentCreated notification. This notification is produced when tokens are
escrowed for a username.

  PaymentCreated:
    - name: paymentId
      type: ByteArray
    - name: sender
      type: Hash160
    - name: recipientUsername
      type: String
    - name: token
      type: Hash160
    - name: amount
      type: Integer

PaymentClaimed notification. This notification is produced when the current
username owner claims an escrowed payment.

  PaymentClaimed:
    - name: paymentId
      type: ByteArray
    - name: claimer
      type: Hash160
    - name: amount
      type: Integer

FeesCollected notification. This notification is produced when the registry
owner collects accumulated registration fees.

  FeesCollected:
    - name: receiver
      type: Hash160
    - name: amount
      type: Integer
*/
package registry
