/*
Factory contract deploys and tracks Nexus vaults.

The factory is the directory of the protocol: it deploys vault contracts
through native Management, enforces that at most one vault exists per
underlying asset and keeps an append-only list of everything it deployed.
Vaults, once deployed, are immutable in address and asset binding; there is
no removal or replacement path.

Contract notifications

VaultDeployed notification. This notification is produced when a new vault
is deployed and recorded.

  VaultDeployed:
    - name: asset
      type: Hash160
    - name: vault
      type: Hash160
*/
package factory
