package sqlinline

const QInsertSession = `--sql e3a9c5f1-7b2d-4e68-9c14-5f0a8d2b6e93
insert into sessions(id, user_id, created_at, expires_at)
values ($1::uuid, $2::uuid, $3::timestamptz, $4::timestamptz);
`

const QSelectSessionByID = `--sql 2b8d4f6a-9c1e-4a37-b5d0-7e3f1a9c2d46
select id, user_id, created_at, expires_at, revoked_at
from sessions
where id = $1::uuid
limit 1;
`

const QRevokeSession = `--sql 91f3c7a5-4d2e-4b8c-8a61-6c0e2f9d4b17
update sessions
set revoked_at = coalesce(revoked_at, now())
where id = $1::uuid;
`
