// Package deploy provides the deployment routine of the Nexus Protocol
// contracts to a Neo blockchain network.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Nexus contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// FactoryContractPrm groups deployment parameters of the Nexus Factory
// contract.
type FactoryContractPrm struct {
	Common CommonDeployPrm
}

// RegistryContractPrm groups deployment parameters of the Nexus Stealth
// Registry contract.
type RegistryContractPrm struct {
	Common CommonDeployPrm

	// Registration fee in GAS units charged for a username.
	RegistrationFee int64
}

// Prm groups all parameters of the Nexus contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Becomes the owner of the deployed contracts.
	LocalAccount *wallet.Account

	FactoryContract  FactoryContractPrm
	RegistryContract RegistryContractPrm
}

// Contracts groups addresses of the deployed Nexus contracts.
type Contracts struct {
	Factory  util.Uint160
	Registry util.Uint160
}

// Deploy deploys the Nexus Factory and Stealth Registry contracts to the Neo
// network represented by given Prm.Blockchain on behalf of the local account.
// Vaults are not deployed directly: they are spawned later through the
// factory's deployVault method.
//
// Deploy is idempotent: contracts already present on the chain are left
// untouched and their addresses are returned. Deployment progress is logged.
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	var res Contracts

	if prm.Logger == nil {
		return res, errors.New("missing logger")
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	owner := prm.LocalAccount.ScriptHash()
	mgmt := management.New(localActor)

	prm.Logger.Info("initializing Nexus Factory contract on the chain...")

	res.Factory, err = syncContract(ctx, syncContractPrm{
		logger:        prm.Logger,
		blockchain:    prm.Blockchain,
		localActor:    localActor,
		management:    mgmt,
		localNEF:      prm.FactoryContract.Common.NEF,
		localManifest: prm.FactoryContract.Common.Manifest,
		deployData:    []any{owner},
	})
	if err != nil {
		return res, fmt.Errorf("init Nexus Factory contract on the chain: %w", err)
	}

	prm.Logger.Info("Nexus Factory contract successfully initialized on the chain",
		zap.Stringer("address", res.Factory))

	prm.Logger.Info("initializing Nexus Stealth Registry contract on the chain...")

	res.Registry, err = syncContract(ctx, syncContractPrm{
		logger:        prm.Logger,
		blockchain:    prm.Blockchain,
		localActor:    localActor,
		management:    mgmt,
		localNEF:      prm.RegistryContract.Common.NEF,
		localManifest: prm.RegistryContract.Common.Manifest,
		deployData:    []any{owner, prm.RegistryContract.RegistrationFee},
	})
	if err != nil {
		return res, fmt.Errorf("init Nexus Stealth Registry contract on the chain: %w", err)
	}

	prm.Logger.Info("Nexus Stealth Registry contract successfully initialized on the chain",
		zap.Stringer("address", res.Registry))

	return res, nil
}

// syncContractPrm groups parameters of syncContract.
type syncContractPrm struct {
	logger *zap.Logger

	blockchain Blockchain
	localActor *actor.Actor
	management *management.Contract

	localNEF      nef.File
	localManifest manifest.Manifest

	deployData []any
}

// syncContract deploys the contract described by the local NEF and manifest
// unless it is already on the chain, and returns its address. The address is
// fully determined by the deployer account, the NEF checksum and the manifest
// name.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	onChainAddress := state.CreateContractHash(prm.localActor.Sender(),
		prm.localNEF.Checksum, prm.localManifest.Name)

	onChainState, err := prm.blockchain.GetContractStateByHash(onChainAddress)
	if err != nil && !isMissingContractError(err) {
		return onChainAddress, fmt.Errorf("read on-chain state of the contract by address '%s': %w",
			onChainAddress.StringLE(), err)
	}

	if onChainState != nil {
		prm.logger.Info("contract is already on the chain, skip deployment",
			zap.String("name", prm.localManifest.Name), zap.Stringer("address", onChainAddress))
		return onChainAddress, nil
	}

	prm.logger.Info("contract is missing on the chain, deploying...",
		zap.String("name", prm.localManifest.Name))

	txHash, vub, err := prm.management.Deploy(&prm.localNEF, &prm.localManifest, prm.deployData)
	if err != nil {
		return onChainAddress, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	prm.logger.Info("transaction deploying the contract has been successfully sent, waiting...",
		zap.String("name", prm.localManifest.Name),
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	rcpt, err := prm.localActor.Wait(txHash, vub, nil)
	if err != nil {
		return onChainAddress, fmt.Errorf("wait for the deployment transaction to be accepted: %w", err)
	}
	if rcpt.VMState != vmstate.Halt {
		return onChainAddress, fmt.Errorf("deployment transaction faulted: %s", rcpt.FaultException)
	}

	select {
	case <-ctx.Done():
		return onChainAddress, ctx.Err()
	default:
	}

	return onChainAddress, nil
}

// isMissingContractError checks whether the error returned by
// [Blockchain.GetContractStateByHash] signals that the contract is not
// deployed.
func isMissingContractError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
