/*
Vault contract is a yield vault deployed once per underlying NEP-17 asset,
usually through the Nexus Factory contract.

The vault is a thin accounting layer on top of an external yield source
contract. Deposited assets are forwarded to the yield source immediately and
the vault only tracks proportional claims on them as shares. The exchange
rate between shares and assets floats as yield accrues in the yield source:
totalAssets is always the yield source's live balance report, never a cached
value. Deposit and withdrawal fees are configured in basis points, charged at
transaction time and retained in the vault's own token balance until the
owner collects them.

Share and asset conversions round in the vault's favor: minted shares and
paid-out assets round down, shares burnt for an exact-asset withdrawal round
up. Every ledger write happens before any token leaves the vault, and a
failed yield source withdrawal faults the whole transaction leaving the
ledger untouched.

Contract notifications

NexusDeposit notification. This notification is produced when a depositor's
assets are accepted and shares are minted to the receiver.

  NexusDeposit:
    - name: receiver
      type: Hash160
    - name: assets
      type: Integer
    - name: shares
      type: Integer
    - name: fee
      type: Integer

NexusWithdraw notification. This notification is produced when shares are
burnt and assets released back to the receiver.

  NexusWithdraw:
    - name: owner
      type: Hash160
    - name: assets
      type: Integer
    - name: shares
      type: Integer
    - name: fee
      type: Integer

FeesCollected notification. This notification is produced when the vault
owner collects accrued protocol fees.

  FeesCollected:
    - name: receiver
      type: Hash160
    - name: amount
      type: Integer
*/
package vault
