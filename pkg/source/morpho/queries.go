package morpho

const vaultHistoryQuery = `
query VaultHistory(
  $address: String!,
  $chainId: Int!,
  $options: TimeseriesOptions
) {
  vaultByAddress(address: $address, chainId: $chainId) {
    address
    name
    historicalState {
      sharePriceUsd(options: $options) {
        x
        y
      }
      totalAssetsUsd(options: $options) {
        x
        y
      }
    }
  }
}`

const vaultDetailsQuery = `
query VaultExtended($address: String!, $chainId: Int!) {
  vaultByAddress(address: $address, chainId: $chainId) {
    address
    name
    symbol
    whitelisted
    promoted
    metadata {
      description
      image
    }
    asset {
      symbol
      name
      decimals
    }
    chain {
      id
    }
    state {
      totalAssetsUsd
      totalAssets
      apy
      netApy
      fee
      sharePriceUsd
      curator
      feeRecipient
      guardian
      owner
      allocation {
        supplyAssetsUsd
        supplyCapUsd
        enabled
        market {
          uniqueKey
          loanAsset {
            symbol
          }
          collateralAsset {
            symbol
          }
          state {
            utilization
          }
        }
      }
    }
  }
}`

const curatorByIDQuery = `
query CuratorById($curatorId: String!) {
  curator(id: $curatorId) {
    id
    name
    description
    verified
    addresses {
      chainId
      address
    }
  }
}`

const curatorByAddressQuery = `
query CuratorByAddress($address: String!) {
  curators(where: { address_in: [$address] }, first: 1) {
    items {
      id
      name
      description
      verified
      addresses {
        chainId
        address
      }
    }
  }
}`

const curatorVaultsQuery = `
query CuratorVaults($curatorId: String!, $first: Int!) {
  vaults(first: $first, where: { curator_in: [$curatorId] }) {
    items {
      id
      name
      address
      whitelisted
      chain {
        id
      }
      asset {
        symbol
      }
      state {
        totalAssetsUsd
      }
    }
  }
}`
