package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nexus-protocol/nexus-contracts/rpc/factory"
	"github.com/nexus-protocol/nexus-contracts/rpc/registry"
	"github.com/nexus-protocol/nexus-contracts/rpc/vault"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	factoryAddress := flag.String("factory", "", "LE hex address of the Nexus Factory contract")
	registryAddress := flag.String("registry", "", "LE hex address of the Nexus Stealth Registry contract")
	username := flag.String("username", "", "Username to dump escrowed stealth payments of (optional)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *factoryAddress == "" && *registryAddress == "":
		log.Fatal("at least one of the factory and registry addresses is required")
	}

	b, err := newRemoteBlockchain(*neoRPCEndpoint)
	if err != nil {
		log.Fatal(fmt.Errorf("init remote blockchain: %w", err))
	}

	defer b.close()

	log.Printf("Connected, current block is #%d\n", b.currentBlock)

	if *factoryAddress != "" {
		err = dumpVaults(b, *factoryAddress)
		if err != nil {
			log.Fatal(fmt.Errorf("dump vaults: %w", err))
		}
	}

	if *registryAddress != "" {
		err = dumpRegistry(b, *registryAddress, *username)
		if err != nil {
			log.Fatal(fmt.Errorf("dump registry: %w", err))
		}
	}
}

// dumpVaults walks all vaults recorded by the factory and prints their
// parameters together with the live TVL.
func dumpVaults(b *remoteBlockchain, factoryAddress string) error {
	factoryHash, err := util.Uint160DecodeStringLE(factoryAddress)
	if err != nil {
		return fmt.Errorf("decode factory address: %w", err)
	}

	factoryReader := factory.NewReader(b.inv, factoryHash)

	vaults, err := factoryReader.GetAllVaults()
	if err != nil {
		return fmt.Errorf("get all vaults: %w", err)
	}

	log.Printf("Factory %s tracks %d vault(s)\n", factoryHash.StringLE(), len(vaults))

	for i := range vaults {
		vaultHash, err := util.Uint160DecodeBytesBE(vaults[i])
		if err != nil {
			return fmt.Errorf("decode vault #%d address: %w", i, err)
		}

		info, err := vault.NewReader(b.inv, vaultHash).GetVaultInfo()
		if err != nil {
			return fmt.Errorf("get vault #%d info: %w", i, err)
		}

		log.Printf("Vault '%s' (%s) at %s: asset %s, TVL %s, shares %s, APY %s bps, risk %s\n",
			info.Name, info.Symbol, vaultHash.StringLE(), info.Asset.StringLE(),
			info.TVL, info.TotalShares, info.APY, info.RiskLevel)
	}

	return nil
}

// dumpRegistry prints the registry fee counters and, if a username is given,
// every stealth payment escrowed for it.
func dumpRegistry(b *remoteBlockchain, registryAddress, username string) error {
	registryHash, err := util.Uint160DecodeStringLE(registryAddress)
	if err != nil {
		return fmt.Errorf("decode registry address: %w", err)
	}

	registryReader := registry.NewReader(b.inv, registryHash)

	fee, err := registryReader.RegistrationFee()
	if err != nil {
		return fmt.Errorf("get registration fee: %w", err)
	}

	collected, err := registryReader.CollectedFees()
	if err != nil {
		return fmt.Errorf("get collected fees: %w", err)
	}

	log.Printf("Registry %s: registration fee %s, collected fees %s\n",
		registryHash.StringLE(), fee, collected)

	if username == "" {
		return nil
	}

	profile, err := registryReader.GetProfile(username)
	if err != nil {
		return fmt.Errorf("get profile of '%s': %w", username, err)
	}

	log.Printf("Username '%s': owner %s, active %t, commitment %s\n",
		profile.Username, profile.Owner.StringLE(), profile.IsActive,
		base58.Encode(profile.StealthMetaAddressHash))

	sessionID, iter, err := registryReader.PaymentsOf(username)
	if err != nil {
		return fmt.Errorf("open payment iterator of '%s': %w", username, err)
	}

	defer func() {
		_ = b.inv.TerminateSession(sessionID)
	}()

	const pageSize = 100

	for {
		items, err := b.inv.TraverseIterator(sessionID, &iter, pageSize)
		if err != nil {
			return fmt.Errorf("traverse payment iterator of '%s': %w", username, err)
		}
		if len(items) == 0 {
			return nil
		}

		for i := range items {
			id, err := items[i].TryBytes()
			if err != nil {
				return fmt.Errorf("decode payment ID: %w", err)
			}

			payment, err := registryReader.GetPayment(id)
			if err != nil {
				return fmt.Errorf("get payment '%s': %w", base58.Encode(id), err)
			}

			log.Printf("Payment %s: from %s, token %s, amount %s, claimed %t\n",
				base58.Encode(id), payment.Sender.StringLE(),
				payment.Token.StringLE(), payment.Amount, payment.Claimed)
		}
	}
}
