package cli

const configFileStub = `version: "1"

migrations:
  # values wrapped in %% are read from the environment
  local_folder: "%%VERSIONS_URI%%"
  database_url: "%%MIGRATE_DATABASE_URL%%"
`
